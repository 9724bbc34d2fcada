package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-backend/internal/apperrors"
	"store-backend/internal/auth"
	"store-backend/internal/models"
)

type memUserStore struct {
	users []*models.User
}

func (m *memUserStore) Create(ctx context.Context, u *models.User) error {
	u.ID = int64(len(m.users) + 1)
	if u.Role == "" {
		u.Role = "user"
	}
	m.users = append(m.users, u)
	return nil
}

func (m *memUserStore) FindForLogin(ctx context.Context, userName, employeeID string) (*models.User, error) {
	for _, u := range m.users {
		if (userName != "" && u.UserName == userName) || (employeeID != "" && u.EmployeeID == employeeID) {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *memUserStore) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	return m.FindForLogin(ctx, "", employeeID)
}

func newTestUserService(t *testing.T) (*UserService, *auth.JWTManager) {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", "store-backend", 1)
	svc := NewUserService(&memUserStore{}, jwtManager, nil)
	require.NoError(t, svc.CreateUser(context.Background(), &models.User{
		UserName:     "storekeeper",
		EmployeeID:   "E1001",
		PasswordHash: "s3cret",
		Role:         "admin",
	}))
	return svc, jwtManager
}

func TestUserService_CreateUserHashes(t *testing.T) {
	svc, _ := newTestUserService(t)
	stored := svc.Repo.(*memUserStore).users[0]

	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "s3cret"))

	err := svc.CreateUser(context.Background(), &models.User{UserName: "x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserService_Login(t *testing.T) {
	svc, jwtManager := newTestUserService(t)
	ctx := context.Background()

	for _, req := range []*models.LoginRequest{
		{UserName: "storekeeper", Password: "s3cret"},
		{EmployeeID: "E1001", Password: "s3cret"},
	} {
		resp, err := svc.Login(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "storekeeper", resp.User.UserName)

		claims, err := jwtManager.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "E1001", claims.EmployeeID)
		assert.Equal(t, "admin", claims.Role)
	}
}

func TestUserService_LoginFailures(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &models.LoginRequest{UserName: "storekeeper"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Login(ctx, &models.LoginRequest{Password: "s3cret"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Login(ctx, &models.LoginRequest{UserName: "storekeeper", Password: "wrong"})
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
	assert.Equal(t, "Invalid credentials", apperrors.PublicMessage(err))

	_, err = svc.Login(ctx, &models.LoginRequest{UserName: "ghost", Password: "s3cret"})
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestUserService_GetByEmployeeID(t *testing.T) {
	svc, _ := newTestUserService(t)

	info, err := svc.GetByEmployeeID(context.Background(), " E1001 ")
	require.NoError(t, err)
	assert.Equal(t, &models.UserInfo{UserName: "storekeeper", EmployeeID: "E1001", UserAccess: "admin"}, info)

	_, err = svc.GetByEmployeeID(context.Background(), "E404")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetByEmployeeID(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}
