package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func adminSession() *authz.Session {
	return &authz.Session{UserID: 1, Role: models.RoleAdmin}
}

func staffSession(id uint) *authz.Session {
	return &authz.Session{UserID: id, Role: models.RoleStaff}
}

func clientSession(id uint) *authz.Session {
	return &authz.Session{UserID: id, Role: models.RoleClient}
}

type memTaskRepo struct {
	tasks  map[uint]models.Task
	nextID uint
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[uint]models.Task{}, nextID: 1}
}

func (r *memTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, int64, error) {
	var out []models.Task
	for _, task := range r.tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.VisibleToID != 0 && task.AssignedToID != filter.VisibleToID && task.AssignedByID != filter.VisibleToID {
			continue
		}
		if filter.AssignedOnlyID != 0 && task.AssignedToID != filter.AssignedOnlyID {
			continue
		}
		out = append(out, task)
	}
	return out, int64(len(out)), nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, id uint) (models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (r *memTaskRepo) Create(ctx context.Context, task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	var existing []uint
	for _, id := range ids {
		if _, ok := r.tasks[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (r *memTaskRepo) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	task, ok := r.tasks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"]; ok {
		task.Status = v.(string)
	}
	if v, ok := updates["assigned_to_id"]; ok {
		task.AssignedToID = v.(uint)
	}
	if v, ok := updates["completed_at"]; ok {
		if v == nil {
			task.CompletedAt = nil
		}
	}
	r.tasks[id] = task
	return nil
}

type memUserRepo struct {
	users map[uint]models.User
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	repo := &memUserRepo{users: map[uint]models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range r.users {
		if filter.ActiveOnly && !user.IsActive {
			continue
		}
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetActiveByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		user.Name = v.(string)
	}
	if v, ok := updates["email"]; ok {
		user.Email = v.(string)
	}
	if v, ok := updates["role"]; ok {
		user.Role = v.(string)
	}
	if v, ok := updates["department"]; ok {
		user.Department = v.(string)
	}
	if v, ok := updates["is_active"]; ok {
		user.IsActive = v.(bool)
	}
	if v, ok := updates["password_hash"]; ok {
		user.PasswordHash = v.(string)
	}
	r.users[id] = user
	return user, nil
}

func (r *memUserRepo) Deactivate(ctx context.Context, id uint) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = false
	r.users[id] = user
	return nil
}

type memHistoryRepo struct {
	entries []models.TaskHistory
}

func (r *memHistoryRepo) Append(ctx context.Context, entry *models.TaskHistory) error {
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByTask(ctx context.Context, taskID uint) ([]models.TaskHistory, error) {
	var out []models.TaskHistory
	for _, entry := range r.entries {
		if entry.TaskID == taskID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type captureNotifier struct {
	entries []NotificationEntry
}

func (n *captureNotifier) Notify(ctx context.Context, entry NotificationEntry) error {
	n.entries = append(n.entries, entry)
	return nil
}
