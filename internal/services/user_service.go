package services

import (
	"context"
	"errors"
	"log"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, models.Validation("username and password are required")
	}

	user, err := s.Repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.Unauthorized("invalid username or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, models.Unauthorized("invalid username or password")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// EnsureAdmin seeds the configured admin account when it does not exist yet.
// Without a password nothing is seeded; there is no built-in default.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	_, err := s.Repo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	if password == "" {
		log.Printf("[Auth] ADMIN_PASSWORD not set, admin user %q was not created", username)
		return nil
	}
	if err := auth.CheckPassword(password); err != nil {
		return models.Validation("admin password: %v", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.Repo.Create(ctx, &models.User{Username: username, PasswordHash: hash, Role: "admin"}); err != nil {
		return err
	}
	log.Printf("[Auth] Created admin user %q", username)
	return nil
}
