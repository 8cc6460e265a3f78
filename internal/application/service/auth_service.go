package service

import (
	"context"
	"fmt"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/auth"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// RegisterInput carries a new employee account
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Phone    string
	Position string
}

// UpdateUserInput carries the mutable profile fields. Nil means keep.
type UpdateUserInput struct {
	Name     *string
	Role     *string
	Phone    *string
	Position *string
	Password *string
}

// LoginResult bundles the issued token with the authenticated user
type LoginResult struct {
	Token string       `json:"access_token"`
	User  *entity.User `json:"user"`
}

// AuthService handles employee accounts and authentication
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) error
}

type authServiceImpl struct {
	userRepo port.UserRepository
	tokens   *auth.TokenManager
	logger   Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, tokens *auth.TokenManager, logger Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an employee account with a hashed password. Email
// uniqueness is enforced by the store and surfaces as a conflict.
func (s *authServiceImpl) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Role:     in.Role,
		Phone:    in.Phone,
		Position: in.Position,
		Active:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// Login verifies the credentials and issues an access token. Unknown
// email, wrong password and deactivated account are indistinguishable
// to the caller.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if entity.IsNotFound(err) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.Active || !auth.CheckPassword(user.Password, password) {
		return nil, entity.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// GetUser returns one employee account
func (s *authServiceImpl) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns all employee accounts
func (s *authServiceImpl) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser patches the profile fields that were provided
func (s *authServiceImpl) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Position != nil {
		user.Position = *in.Position
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserActive activates or deactivates an account. Deactivated users
// cannot log in and cannot be assigned to steps; existing assignments
// are left alone.
func (s *authServiceImpl) SetUserActive(ctx context.Context, id int64, active bool) error {
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("User active flag changed", "user_id", id, "active", active)
	return nil
}
