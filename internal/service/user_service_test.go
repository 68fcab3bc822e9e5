package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
)

type memProfileRepo struct {
	educations  map[uint]models.Education
	languages   map[uint]models.Language
	experiences map[uint]models.WorkExperience
	nextID      uint
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{
		educations:  map[uint]models.Education{},
		languages:   map[uint]models.Language{},
		experiences: map[uint]models.WorkExperience{},
		nextID:      1,
	}
}

func (r *memProfileRepo) ListEducations(ctx context.Context, userID uint) ([]models.Education, error) {
	var out []models.Education
	for _, record := range r.educations {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memProfileRepo) AddEducation(ctx context.Context, education *models.Education) error {
	education.ID = r.nextID
	r.nextID++
	r.educations[education.ID] = *education
	return nil
}

func (r *memProfileRepo) DeleteEducation(ctx context.Context, id uint, userID uint) error {
	record, ok := r.educations[id]
	if !ok || record.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.educations, id)
	return nil
}

func (r *memProfileRepo) ListLanguages(ctx context.Context, userID uint) ([]models.Language, error) {
	var out []models.Language
	for _, record := range r.languages {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memProfileRepo) AddLanguage(ctx context.Context, language *models.Language) error {
	language.ID = r.nextID
	r.nextID++
	r.languages[language.ID] = *language
	return nil
}

func (r *memProfileRepo) DeleteLanguage(ctx context.Context, id uint, userID uint) error {
	record, ok := r.languages[id]
	if !ok || record.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.languages, id)
	return nil
}

func (r *memProfileRepo) ListWorkExperiences(ctx context.Context, userID uint) ([]models.WorkExperience, error) {
	var out []models.WorkExperience
	for _, record := range r.experiences {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *memProfileRepo) AddWorkExperience(ctx context.Context, experience *models.WorkExperience) error {
	experience.ID = r.nextID
	r.nextID++
	r.experiences[experience.ID] = *experience
	return nil
}

func (r *memProfileRepo) DeleteWorkExperience(ctx context.Context, id uint, userID uint) error {
	record, ok := r.experiences[id]
	if !ok || record.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.experiences, id)
	return nil
}

func newUserFixture(t *testing.T) (UserService, *memUserRepo, *memProfileRepo) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("original pass"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newMemUserRepo(
		models.User{ID: 1, Name: "Amira", Email: "amira@example.com", PasswordHash: string(hash), Role: models.RoleAdmin, IsActive: true},
		models.User{ID: 2, Name: "Badr", Email: "badr@example.com", PasswordHash: string(hash), Role: models.RoleStaff, IsActive: true},
	)
	profiles := newMemProfileRepo()

	svc := NewUserService(users, profiles, testValidator(), testLogger())
	return svc, users, profiles
}

func TestUserCreateNormalizesEmailAndRole(t *testing.T) {
	svc, users, _ := newUserFixture(t)

	resp, err := svc.Create(context.Background(), adminSession(), dto.UserCreateRequest{
		Name:     "Celine",
		Email:    "Celine@Example.COM",
		Password: "longenough",
		Role:     "STAFF",
	})
	require.NoError(t, err)
	require.Equal(t, "celine@example.com", resp.Email)

	stored, err := users.GetByEmail(context.Background(), "celine@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "longenough", stored.PasswordHash)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), adminSession(), dto.UserCreateRequest{
		Name:     "Badr Again",
		Email:    "badr@example.com",
		Password: "longenough",
		Role:     "STAFF",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserCreateRequiresAdmin(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), staffSession(2), dto.UserCreateRequest{
		Name:     "Celine",
		Email:    "celine@example.com",
		Password: "longenough",
		Role:     "STAFF",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUserSelfDeactivationBlocked(t *testing.T) {
	svc, users, _ := newUserFixture(t)

	err := svc.Deactivate(context.Background(), adminSession(), 1)
	require.ErrorIs(t, err, ErrSelfDeactivation)

	inactive := false
	_, err = svc.Update(context.Background(), adminSession(), 1, dto.UserUpdateRequest{IsActive: &inactive})
	require.ErrorIs(t, err, ErrSelfDeactivation)

	// Other accounts deactivate fine and the row survives.
	err = svc.Deactivate(context.Background(), adminSession(), 2)
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
}

func TestUserGetSelfOrAdmin(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.Get(context.Background(), staffSession(2), 2)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), staffSession(2), 1)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(context.Background(), adminSession(), 2)
	require.NoError(t, err)
}

func TestUserChangePassword(t *testing.T) {
	svc, users, _ := newUserFixture(t)

	err := svc.ChangePassword(context.Background(), staffSession(2), dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "freshpassword",
	})
	require.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), staffSession(2), dto.ChangePasswordRequest{
		CurrentPassword: "original pass",
		NewPassword:     "freshpassword",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("freshpassword")))
}

func TestUserResetPassword(t *testing.T) {
	svc, users, _ := newUserFixture(t)

	err := svc.ResetPassword(context.Background(), staffSession(2), 2, dto.ResetPasswordRequest{Password: "adminchosen1"})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.ResetPassword(context.Background(), adminSession(), 2, dto.ResetPasswordRequest{Password: "adminchosen1"})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("adminchosen1")))
}

func TestProfileEducationDateRange(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	end := "2019-01-01"
	_, err := svc.AddEducation(context.Background(), staffSession(2), 2, dto.EducationCreateRequest{
		Institution: "Cairo University",
		StartDate:   "2020-09-01",
		EndDate:     &end,
	})
	require.ErrorIs(t, err, ErrDateRangeInvalid)

	validEnd := "2024-06-30"
	resp, err := svc.AddEducation(context.Background(), staffSession(2), 2, dto.EducationCreateRequest{
		Institution: "Cairo University",
		Degree:      "BSc",
		StartDate:   "2020-09-01",
		EndDate:     &validEnd,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.EndDate)
}

func TestProfileOwnershipEnforced(t *testing.T) {
	svc, _, profiles := newUserFixture(t)

	record, err := svc.AddLanguage(context.Background(), staffSession(2), 2, dto.LanguageCreateRequest{Name: "Arabic", Proficiency: "NATIVE"})
	require.NoError(t, err)

	// Another staff member can neither list nor delete the entry.
	_, err = svc.ListLanguages(context.Background(), staffSession(3), 2)
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteLanguage(context.Background(), staffSession(3), 3, record.ID)
	require.ErrorIs(t, err, ErrProfileRowNotFound)

	err = svc.DeleteLanguage(context.Background(), staffSession(2), 2, record.ID)
	require.NoError(t, err)
	require.Empty(t, profiles.languages)
}

func TestUserListRequiresAdmin(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.List(context.Background(), staffSession(2), dto.UserListRequest{})
	require.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.List(context.Background(), adminSession(), dto.UserListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
}
