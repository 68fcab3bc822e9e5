package dto

import "time"

// UserPerformance aggregates one user's trailing 30-day output.
type UserPerformance struct {
	UserID          uint   `json:"user_id"`
	Name            string `json:"name"`
	Department      string `json:"department"`
	CompletedTasks  int64  `json:"completed_tasks"`
	ApprovedMinutes int64  `json:"approved_minutes"`
}

// DashboardStatsResponse carries the read-side rollups for the admin
// dashboard. Recomputed on cache miss; CacheHit flags a redis serve.
type DashboardStatsResponse struct {
	TasksByStatus     map[string]int64  `json:"tasks_by_status"`
	TasksByPriority   map[string]int64  `json:"tasks_by_priority"`
	UsersByDepartment map[string]int64  `json:"users_by_department"`
	WorkLogs24h       map[string]int64  `json:"work_logs_24h"`
	Performance30d    []UserPerformance `json:"performance_30d"`
	GeneratedAt       time.Time         `json:"generated_at"`
	CacheHit          bool              `json:"cache_hit"`
}
