package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"appointment_booking/internal/metrics"
	"appointment_booking/internal/model"
	"appointment_booking/internal/repository"
	"appointment_booking/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Authenticate(token string) (model.Identity, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, rec metrics.Recorder) AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		metrics:  rec,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, req.Role)
	}
	email := normalizeEmail(req.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &model.User{
		ID:           id.String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.metrics.RecordRegistration(string(user.Role))
	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.metrics.RecordLogin(false)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordLogin(true)
	return user, token, nil
}

// Authenticate verifies a session token and yields the caller's identity.
// The role is passed through as issued; role checks happen downstream.
func (s *authService) Authenticate(token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, ErrUnauthenticated
	}
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return model.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
