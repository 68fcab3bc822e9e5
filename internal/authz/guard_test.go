package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

func TestAuthorizeMonotonicOverRanks(t *testing.T) {
	roles := []string{models.RoleClient, models.RoleStaff, models.RoleAdmin}

	for _, required := range roles {
		for _, have := range roles {
			session := &Session{UserID: 7, Role: have}
			decision := Authorize(session, required)
			if Rank(have) >= Rank(required) {
				require.Equal(t, Allowed, decision, "role %s should satisfy %s", have, required)
			} else {
				require.Equal(t, Forbidden, decision, "role %s should not satisfy %s", have, required)
			}
		}
	}
}

func TestAuthorizeMissingSession(t *testing.T) {
	require.Equal(t, Unauthorized, Authorize(nil, models.RoleClient))
	require.Equal(t, Unauthorized, Authorize(&Session{}, models.RoleClient))
}

func TestAuthorizeUnknownRole(t *testing.T) {
	session := &Session{UserID: 1, Role: "intern"}
	require.Equal(t, Forbidden, Authorize(session, models.RoleClient))
}

func TestAuthorizeRoleNormalization(t *testing.T) {
	session := &Session{UserID: 1, Role: " admin "}
	require.Equal(t, Allowed, Authorize(session, models.RoleStaff))
}

func TestAuthorizeTaskClientOwnTasksOnly(t *testing.T) {
	task := models.Task{AssignedToID: 4, AssignedByID: 2}

	require.Equal(t, Allowed, AuthorizeTask(&Session{UserID: 4, Role: models.RoleClient}, task))
	require.Equal(t, Forbidden, AuthorizeTask(&Session{UserID: 5, Role: models.RoleClient}, task))
	// Being the assigner is not enough for a client.
	require.Equal(t, Forbidden, AuthorizeTask(&Session{UserID: 2, Role: models.RoleClient}, task))
}

func TestAuthorizeTaskStaffAssigneeOrAssigner(t *testing.T) {
	task := models.Task{AssignedToID: 4, AssignedByID: 2}

	require.Equal(t, Allowed, AuthorizeTask(&Session{UserID: 4, Role: models.RoleStaff}, task))
	require.Equal(t, Allowed, AuthorizeTask(&Session{UserID: 2, Role: models.RoleStaff}, task))
	require.Equal(t, Forbidden, AuthorizeTask(&Session{UserID: 9, Role: models.RoleStaff}, task))
}

func TestAuthorizeTaskAdminAlways(t *testing.T) {
	task := models.Task{AssignedToID: 4, AssignedByID: 2}
	require.Equal(t, Allowed, AuthorizeTask(&Session{UserID: 99, Role: models.RoleAdmin}, task))
}

func TestAuthorizeTaskMissingSession(t *testing.T) {
	require.Equal(t, Unauthorized, AuthorizeTask(nil, models.Task{}))
}

func TestAuthorizeSelfOrAdmin(t *testing.T) {
	require.Equal(t, Allowed, AuthorizeSelfOrAdmin(&Session{UserID: 3, Role: models.RoleClient}, 3))
	require.Equal(t, Allowed, AuthorizeSelfOrAdmin(&Session{UserID: 8, Role: models.RoleAdmin}, 3))
	require.Equal(t, Forbidden, AuthorizeSelfOrAdmin(&Session{UserID: 5, Role: models.RoleStaff}, 3))
	require.Equal(t, Unauthorized, AuthorizeSelfOrAdmin(nil, 3))
}
