package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

type dashboardRepoStub struct {
	byStatus     []repository.GroupCount
	byPriority   []repository.GroupCount
	byDepartment []repository.GroupCount
	workLogs     []repository.GroupCount
	performance  []repository.PerformanceRow
	calls        int
}

func (r *dashboardRepoStub) CountTasksByStatus(ctx context.Context) ([]repository.GroupCount, error) {
	r.calls++
	return r.byStatus, nil
}

func (r *dashboardRepoStub) CountTasksByPriority(ctx context.Context) ([]repository.GroupCount, error) {
	return r.byPriority, nil
}

func (r *dashboardRepoStub) CountUsersByDepartment(ctx context.Context) ([]repository.GroupCount, error) {
	return r.byDepartment, nil
}

func (r *dashboardRepoStub) CountWorkLogsByStatusSince(ctx context.Context, since time.Time) ([]repository.GroupCount, error) {
	return r.workLogs, nil
}

func (r *dashboardRepoStub) PerformanceSince(ctx context.Context, since time.Time) ([]repository.PerformanceRow, error) {
	return r.performance, nil
}

func newDashboardStub() *dashboardRepoStub {
	return &dashboardRepoStub{
		byStatus:     []repository.GroupCount{{Key: "PENDING", Count: 4}, {Key: "COMPLETED", Count: 2}},
		byPriority:   []repository.GroupCount{{Key: "HIGH", Count: 3}},
		byDepartment: []repository.GroupCount{{Key: "Design", Count: 5}},
		workLogs:     []repository.GroupCount{{Key: "PENDING", Count: 1}},
		performance:  []repository.PerformanceRow{{UserID: 2, Name: "Badr", Department: "Design", CompletedTasks: 2, ApprovedMinutes: 360}},
	}
}

func TestDashboardStatsAggregates(t *testing.T) {
	repo := newDashboardStub()
	svc := NewDashboardService(repo, nil, time.Minute, testLogger())

	stats, err := svc.Stats(context.Background(), adminSession())
	require.NoError(t, err)
	require.False(t, stats.CacheHit)
	require.Equal(t, int64(4), stats.TasksByStatus["PENDING"])
	require.Equal(t, int64(3), stats.TasksByPriority["HIGH"])
	require.Equal(t, int64(5), stats.UsersByDepartment["Design"])
	require.Equal(t, int64(1), stats.WorkLogs24h["PENDING"])
	require.Len(t, stats.Performance30d, 1)
	require.Equal(t, int64(360), stats.Performance30d[0].ApprovedMinutes)
}

func TestDashboardStatsCacheHit(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	repo := newDashboardStub()
	svc := NewDashboardService(repo, client, time.Minute, testLogger())

	first, err := svc.Stats(context.Background(), adminSession())
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.Stats(context.Background(), adminSession())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.TasksByStatus, second.TasksByStatus)
	require.Equal(t, 1, repo.calls)
}

func TestDashboardStatsRequiresAdmin(t *testing.T) {
	svc := NewDashboardService(newDashboardStub(), nil, time.Minute, testLogger())

	_, err := svc.Stats(context.Background(), staffSession(2))
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Stats(context.Background(), nil)
	require.ErrorIs(t, err, ErrUnauthorized)
}
