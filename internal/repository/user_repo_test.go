package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/models"
)

func setupUserDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:userrepo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
	})
	return db
}

func TestUserRepositoryListFilters(t *testing.T) {
	db := setupUserDB(t)
	repo := NewUserRepository(db)

	users := []models.User{
		{Name: "Alice Johnson", Email: "alice@example.com", PasswordHash: "x", Role: models.RoleAdmin, Department: "ops", IsActive: true},
		{Name: "Bob Stone", Email: "bob@example.com", PasswordHash: "x", Role: models.RoleStaff, Department: "design", IsActive: false},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	listed, total, err := repo.List(context.Background(), UserFilter{Search: "alice", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Alice Johnson", listed[0].Name)

	listed, total, err = repo.List(context.Background(), UserFilter{ActiveOnly: true, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.True(t, listed[0].IsActive)

	_, total, err = repo.List(context.Background(), UserFilter{Department: "design", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestUserRepositoryDeactivateKeepsRow(t *testing.T) {
	db := setupUserDB(t)
	repo := NewUserRepository(db)

	user := models.User{Name: "Carol Reed", Email: "carol@example.com", PasswordHash: "x", Role: models.RoleStaff, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, repo.Deactivate(context.Background(), user.ID))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	_, err = repo.GetActiveByID(context.Background(), user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.ErrorIs(t, repo.Deactivate(context.Background(), 999), gorm.ErrRecordNotFound)
}

func TestUserRepositoryGetByEmailNormalizes(t *testing.T) {
	db := setupUserDB(t)
	repo := NewUserRepository(db)

	user := models.User{Name: "Dina Aziz", Email: "dina@example.com", PasswordHash: "x", Role: models.RoleClient, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	found, err := repo.GetByEmail(context.Background(), "  DINA@example.com ")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
