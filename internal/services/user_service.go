package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"parking-backend/internal/auth"
	"parking-backend/internal/models"
	"parking-backend/internal/repositories"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UserService struct {
	Users      UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(users UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{Users: users, JWTManager: jwtManager}
}

// Login checks an active operator's password and issues a token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		log.Printf("[Auth] Failed login for %q", username)
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] %s logged in", user.Username)
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Bootstrap creates the first operator when the users table is empty.
// Nothing happens when either credential is blank.
func (s *UserService) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	n, err := s.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.Users.Create(ctx, &models.User{Username: username, PasswordHash: hash}); err != nil {
		return err
	}
	log.Printf("[Auth] Created initial operator %q", username)
	return nil
}
