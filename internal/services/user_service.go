package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"store-backend/internal/apperrors"
	"store-backend/internal/auth"
	"store-backend/internal/models"
)

// UserStore is the users table.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindForLogin(ctx context.Context, userName, employeeID string) (*models.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
}

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
	log        *zap.Logger
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		log:        log.Named("user"),
	}
}

// CreateUser hashes the plaintext in u.PasswordHash and upserts the user.
func (s *UserService) CreateUser(ctx context.Context, u *models.User) error {
	if strings.TrimSpace(u.UserName) == "" || u.PasswordHash == "" {
		return apperrors.Validation("user_name and password are required")
	}
	hashed, err := auth.HashPassword(u.PasswordHash)
	if err != nil {
		return apperrors.Internal(err)
	}
	u.PasswordHash = hashed
	return s.Repo.Create(ctx, u)
}

// Login authenticates by user name or employee id and issues a JWT. Unknown
// users and wrong passwords get the same error.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	userName := strings.TrimSpace(req.UserName)
	employeeID := strings.TrimSpace(req.EmployeeID)
	if req.Password == "" || (userName == "" && employeeID == "") {
		return nil, apperrors.Validation("Password and either user name or employee ID are required.")
	}

	user, err := s.Repo.FindForLogin(ctx, userName, employeeID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.log.Info("login rejected", zap.String("user_name", user.UserName))
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.Info("login", zap.String("user_name", user.UserName), zap.String("role", user.Role))
	return &models.AuthResponse{Token: token, User: user}, nil
}

// GetByEmployeeID returns the public profile of one user.
func (s *UserService) GetByEmployeeID(ctx context.Context, employeeID string) (*models.UserInfo, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, apperrors.Validation("employee_id is required")
	}
	user, err := s.Repo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &models.UserInfo{
		UserName:   user.UserName,
		EmployeeID: user.EmployeeID,
		UserAccess: user.Role,
	}, nil
}
