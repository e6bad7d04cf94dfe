package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevaqueue/seva-api/internal/model"
	pkgauth "github.com/sevaqueue/seva-api/pkg/auth"
	apperrors "github.com/sevaqueue/seva-api/pkg/errors"
	"github.com/sevaqueue/seva-api/pkg/security"
)

type fakeClerkRepo struct {
	byEmail map[string]*model.Clerk
}

func newFakeClerkRepo() *fakeClerkRepo {
	return &fakeClerkRepo{byEmail: make(map[string]*model.Clerk)}
}

func (r *fakeClerkRepo) Create(_ context.Context, clerk *model.Clerk) error {
	r.byEmail[clerk.Email] = clerk
	return nil
}

func (r *fakeClerkRepo) GetByEmail(_ context.Context, email string) (*model.Clerk, error) {
	clerk, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("clerk not found")
	}
	return clerk, nil
}

func newTestService() (*Service, *fakeClerkRepo) {
	repo := newFakeClerkRepo()
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	// bcrypt.MinCost keeps the tests fast.
	return NewService(repo, jwtSvc, security.NewBcryptHasher(4)), repo
}

func createReq() *model.CreateClerkRequest {
	return &model.CreateClerkRequest{
		Email:        "meera@revenue.example.org",
		Name:         "Meera Iyer",
		Password:     "s3cret-pass",
		Role:         model.ClerkRoleClerk,
		DepartmentID: "revenue",
	}
}

func TestCreateClerk_StoresHashNotPlaintext(t *testing.T) {
	svc, repo := newTestService()

	clerk, err := svc.CreateClerk(context.Background(), createReq())
	require.NoError(t, err)

	stored := repo.byEmail[clerk.Email]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.Equal(t, model.ClerkRoleClerk, stored.Role)
}

func TestCreateClerk_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateClerk(context.Background(), createReq())
	require.NoError(t, err)

	_, err = svc.CreateClerk(context.Background(), createReq())
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService()

	clerk, err := svc.CreateClerk(context.Background(), createReq())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    clerk.Email,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, clerk.Email, claims.Email)
	assert.Equal(t, string(model.ClerkRoleClerk), claims.Role)
	assert.Equal(t, "revenue", claims.DepartmentID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateClerk(context.Background(), createReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "meera@revenue.example.org",
		Password: "not-the-password",
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.org",
		Password: "whatever-pass",
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
