package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

type mockUserRepo struct {
	created           *models.User
	createErr         error
	userByEmail       *models.User
	findByEmailErr    error
	userByID          *models.User
	findByIDErr       error
	updatedHash       string
	updatePasswordErr error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	m.created = user
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return m.userByID, nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.updatedHash = passwordHash
	return nil
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "secret",
		TokenExpiry: 72 * time.Hour,
		Issuer:      "courselog",
	})
}

func TestSignupLecturerStartsInactive(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newAuthService(repo)

	res, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:  "Ama",
		LastName:   "Mensah",
		Email:      "ama@example.com",
		Password:   "password123",
		Role:       models.RoleLecturer,
		Department: "it",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.False(t, res.User.IsActive)
	require.NotNil(t, repo.created.Department)
	assert.Equal(t, models.DepartmentIT, *repo.created.Department)
	assert.NotEqual(t, "password123", repo.created.PasswordHash)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsActive)
	assert.Equal(t, models.RoleLecturer, claims.Role)
}

func TestSignupAdminStartsActiveWithoutDepartment(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newAuthService(repo)

	res, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName: "Kwame",
		LastName:  "Asante",
		Email:     "admin@example.com",
		Password:  "password123",
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.True(t, res.User.IsActive)
	assert.Nil(t, res.User.Department)
}

func TestSignupAdminWithDepartmentRejected(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:  "Kwame",
		LastName:   "Asante",
		Email:      "admin@example.com",
		Password:   "password123",
		Role:       models.RoleAdmin,
		Department: "it",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSignupLecturerWithoutDepartmentRejected(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName: "Ama",
		LastName:  "Mensah",
		Email:     "ama@example.com",
		Password:  "password123",
		Role:      models.RoleLecturer,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{createErr: &pq.Error{Code: "23505"}}
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:  "Ama",
		LastName:   "Mensah",
		Email:      "ama@example.com",
		Password:   "password123",
		Role:       models.RoleLecturer,
		Department: "it",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
}

func TestSigninUnknownEmailIsNotFound(t *testing.T) {
	repo := &mockUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := newAuthService(repo)

	_, err := svc.Signin(context.Background(), models.SigninRequest{Email: "ghost@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSigninWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockUserRepo{userByEmail: &models.User{ID: "u1", Email: "ama@example.com", PasswordHash: string(hash), IsActive: true}}
	svc := newAuthService(repo)

	_, err := svc.Signin(context.Background(), models.SigninRequest{Email: "ama@example.com", Password: "wrongpassword"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestSigninInactiveAccountStillGetsToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockUserRepo{userByEmail: &models.User{ID: "u1", Email: "ama@example.com", PasswordHash: string(hash), IsActive: false, Role: models.RoleLecturer}}
	svc := newAuthService(repo)

	res, err := svc.Signin(context.Background(), models.SigninRequest{Email: "ama@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsActive)
}

func TestChangePasswordVerifiesOld(t *testing.T) {
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	repo := &mockUserRepo{userByID: &models.User{ID: "u1", PasswordHash: string(oldHash)}}
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpassword"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte("newpassword")))
}

func TestSignupShortPasswordRejected(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:  "Ada",
		LastName:   "Mensah",
		Email:      "ada@example.com",
		Password:   "short",
		Role:       models.RoleLecturer,
		Department: "it",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
