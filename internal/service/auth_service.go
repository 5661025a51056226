package service

import (
	"context"
	"errors"
	"os"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DTOs for Request validation
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	IsPremium bool   `json:"is_premium"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	IsPremium bool      `json:"is_premium"`
	CreatedAt string    `json:"created_at"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// AuthService holds the current-user contract. There is no credential
// verification by design: a presented user object is accepted as-is, stored on
// first sight, and handed back a signed token carrying its identity.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, ok := s.userRepo.GetByEmail(ctx, req.Email)
	if !ok {
		user = &model.User{
			ID:        uuid.New(),
			Email:     req.Email,
			IsPremium: req.IsPremium,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	// Generate JWT Token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID.String(),
		"email":   user.Email,
		"premium": user.IsPremium,
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &AuthResponse{User: mapToUserResponse(user), Token: tokenString}, nil
}

func (s *authService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	user, ok := s.userRepo.GetByID(ctx, userID)
	if !ok {
		return nil, errors.New("user not found")
	}
	resp := mapToUserResponse(user)
	return &resp, nil
}

func mapToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsPremium: user.IsPremium,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
