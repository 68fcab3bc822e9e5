package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
)

type memWorkLogRepo struct {
	logs   map[uint]models.WorkLog
	nextID uint
}

func newMemWorkLogRepo() *memWorkLogRepo {
	return &memWorkLogRepo{logs: map[uint]models.WorkLog{}, nextID: 1}
}

func (r *memWorkLogRepo) List(ctx context.Context, filter repository.WorkLogFilter) ([]models.WorkLog, int64, error) {
	var out []models.WorkLog
	for _, log := range r.logs {
		if filter.Status != "" && log.Status != filter.Status {
			continue
		}
		if filter.OwnerID != 0 && log.UserID != filter.OwnerID {
			continue
		}
		out = append(out, log)
	}
	return out, int64(len(out)), nil
}

func (r *memWorkLogRepo) GetByID(ctx context.Context, id uint) (models.WorkLog, error) {
	log, ok := r.logs[id]
	if !ok {
		return models.WorkLog{}, gorm.ErrRecordNotFound
	}
	return log, nil
}

func (r *memWorkLogRepo) Create(ctx context.Context, log *models.WorkLog) error {
	log.ID = r.nextID
	r.nextID++
	r.logs[log.ID] = *log
	return nil
}

func (r *memWorkLogRepo) Update(ctx context.Context, log *models.WorkLog) error {
	if _, ok := r.logs[log.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.logs[log.ID] = *log
	return nil
}

func newWorkLogFixture() (WorkLogService, *memWorkLogRepo) {
	logs := newMemWorkLogRepo()
	svc := NewWorkLogService(logs, newMemTaskRepo(), testValidator(), testLogger())
	return svc, logs
}

func TestWorkLogCreateDefaultsToPending(t *testing.T) {
	svc, logs := newWorkLogFixture()

	resp, err := svc.Create(context.Background(), staffSession(2), dto.WorkLogCreateRequest{
		Title:        "Client onboarding call",
		TimeSpentMin: 90,
	})
	require.NoError(t, err)
	require.Equal(t, models.WorkLogStatusPending, resp.Status)
	require.Equal(t, uint(2), resp.UserID)
	require.Nil(t, resp.ReviewedByID)

	require.Len(t, logs.logs, 1)
}

func TestWorkLogCreateBounds(t *testing.T) {
	svc, _ := newWorkLogFixture()

	for _, minutes := range []int{0, -5, 1441} {
		_, err := svc.Create(context.Background(), staffSession(2), dto.WorkLogCreateRequest{
			Title:        "Out of bounds",
			TimeSpentMin: minutes,
		})
		var vErr validator.ValidationErrors
		require.ErrorAs(t, err, &vErr)
	}

	for _, minutes := range []int{1, 1440} {
		_, err := svc.Create(context.Background(), staffSession(2), dto.WorkLogCreateRequest{
			Title:        "At the boundary",
			TimeSpentMin: minutes,
		})
		require.NoError(t, err)
	}
}

func TestWorkLogCreateUnknownTask(t *testing.T) {
	svc, _ := newWorkLogFixture()

	taskID := uint(99)
	_, err := svc.Create(context.Background(), staffSession(2), dto.WorkLogCreateRequest{
		Title:        "Linked work",
		TimeSpentMin: 30,
		TaskID:       &taskID,
	})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestWorkLogReviewIsTerminal(t *testing.T) {
	svc, logs := newWorkLogFixture()

	logs.logs[1] = models.WorkLog{ID: 1, UserID: 2, Title: "Weekly summary", TimeSpentMin: 60, Status: models.WorkLogStatusPending}

	resp, err := svc.Review(context.Background(), adminSession(), 1, dto.WorkLogReviewRequest{Status: models.WorkLogStatusApproved})
	require.NoError(t, err)
	require.Equal(t, models.WorkLogStatusApproved, resp.Status)
	require.NotNil(t, resp.ReviewedByID)
	require.Equal(t, uint(1), *resp.ReviewedByID)

	_, err = svc.Review(context.Background(), adminSession(), 1, dto.WorkLogReviewRequest{Status: models.WorkLogStatusRejected})
	require.ErrorIs(t, err, ErrWorkLogSettled)
}

func TestWorkLogReviewRequiresAdmin(t *testing.T) {
	svc, logs := newWorkLogFixture()

	logs.logs[1] = models.WorkLog{ID: 1, UserID: 2, Title: "Weekly summary", TimeSpentMin: 60, Status: models.WorkLogStatusPending}

	_, err := svc.Review(context.Background(), staffSession(2), 1, dto.WorkLogReviewRequest{Status: models.WorkLogStatusApproved})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestWorkLogListScoping(t *testing.T) {
	svc, logs := newWorkLogFixture()

	logs.logs[1] = models.WorkLog{ID: 1, UserID: 2, Title: "Mine", TimeSpentMin: 30, Status: models.WorkLogStatusPending}
	logs.logs[2] = models.WorkLog{ID: 2, UserID: 3, Title: "Theirs", TimeSpentMin: 45, Status: models.WorkLogStatusPending}

	own, err := svc.List(context.Background(), staffSession(2), dto.WorkLogListRequest{UserID: 3})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	require.Equal(t, uint(2), own.Items[0].UserID)

	all, err := svc.List(context.Background(), adminSession(), dto.WorkLogListRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)

	scoped, err := svc.List(context.Background(), adminSession(), dto.WorkLogListRequest{UserID: 3})
	require.NoError(t, err)
	require.Len(t, scoped.Items, 1)
	require.Equal(t, uint(3), scoped.Items[0].UserID)
}
