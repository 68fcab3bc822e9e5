package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
)

type memNotificationRepo struct {
	records map[uint]models.TaskNotification
	nextID  uint
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{records: map[uint]models.TaskNotification{}, nextID: 1}
}

func (r *memNotificationRepo) Create(ctx context.Context, notification *models.TaskNotification) error {
	notification.ID = r.nextID
	r.nextID++
	r.records[notification.ID] = *notification
	return nil
}

func (r *memNotificationRepo) ListByTask(ctx context.Context, taskID uint) ([]models.TaskNotification, error) {
	var out []models.TaskNotification
	for _, record := range r.records {
		if record.TaskID == taskID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.TaskNotification, error) {
	var out []models.TaskNotification
	for _, record := range r.records {
		if record.RecipientID == recipientID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id uint, recipientID uint) (models.TaskNotification, error) {
	record, ok := r.records[id]
	if !ok || record.RecipientID != recipientID {
		return models.TaskNotification{}, gorm.ErrRecordNotFound
	}
	record.IsRead = true
	r.records[id] = record
	return record, nil
}

func newNotificationFixture() (NotificationService, *memNotificationRepo, *memTaskRepo) {
	notifications := newMemNotificationRepo()
	tasks := newMemTaskRepo()
	svc := NewNotificationService(notifications, tasks, nil, testValidator(), testLogger())
	return svc, notifications, tasks
}

func TestNotifySanitizesMessage(t *testing.T) {
	svc, notifications, _ := newNotificationFixture()

	err := svc.Notify(context.Background(), NotificationEntry{
		TaskID:      10,
		RecipientID: 2,
		SenderID:    1,
		Type:        models.NotificationTypeComment,
		Message:     `Check <script>alert("x")</script> the <b>brief</b>`,
	})
	require.NoError(t, err)

	require.Len(t, notifications.records, 1)
	stored := notifications.records[1]
	require.NotContains(t, stored.Message, "<script>")
	require.NotContains(t, stored.Message, "<b>")
	require.Contains(t, stored.Message, "Check")
	require.Contains(t, stored.Message, "brief")
}

func TestCommentAddressesCounterparty(t *testing.T) {
	svc, notifications, tasks := newNotificationFixture()

	tasks.tasks[10] = models.Task{ID: 10, Title: "Draft proposal", AssignedToID: 2, AssignedByID: 1}

	// The assignee comments; the assigner receives it.
	resp, err := svc.Comment(context.Background(), staffSession(2), 10, dto.NotificationCreateRequest{
		Type:    models.NotificationTypeComment,
		Message: "First draft attached",
	})
	require.NoError(t, err)
	require.Equal(t, uint(1), resp.RecipientID)
	require.Equal(t, uint(2), resp.SenderID)

	// The assigner comments; the assignee receives it.
	resp, err = svc.Comment(context.Background(), adminSession(), 10, dto.NotificationCreateRequest{
		Type:    models.NotificationTypeComment,
		Message: "Looks good, tighten the intro",
	})
	require.NoError(t, err)
	require.Equal(t, uint(2), resp.RecipientID)

	require.Len(t, notifications.records, 2)
}

func TestCommentRequiresTaskAccess(t *testing.T) {
	svc, _, tasks := newNotificationFixture()

	tasks.tasks[10] = models.Task{ID: 10, Title: "Draft proposal", AssignedToID: 2, AssignedByID: 1}

	_, err := svc.Comment(context.Background(), clientSession(4), 10, dto.NotificationCreateRequest{
		Type:    models.NotificationTypeComment,
		Message: "hello",
	})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Comment(context.Background(), adminSession(), 99, dto.NotificationCreateRequest{
		Type:    models.NotificationTypeComment,
		Message: "hello",
	})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, notifications, _ := newNotificationFixture()

	notifications.records[1] = models.TaskNotification{ID: 1, TaskID: 10, RecipientID: 2, SenderID: 1, Type: models.NotificationTypeAssignment}

	_, err := svc.MarkRead(context.Background(), staffSession(3), 1)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	resp, err := svc.MarkRead(context.Background(), staffSession(2), 1)
	require.NoError(t, err)
	require.True(t, resp.IsRead)
}

func TestInboxListsOwnNotifications(t *testing.T) {
	svc, notifications, _ := newNotificationFixture()

	notifications.records[1] = models.TaskNotification{ID: 1, TaskID: 10, RecipientID: 2, SenderID: 1}
	notifications.records[2] = models.TaskNotification{ID: 2, TaskID: 10, RecipientID: 3, SenderID: 1}

	inbox, err := svc.Inbox(context.Background(), staffSession(2), 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, uint(2), inbox[0].RecipientID)
}
