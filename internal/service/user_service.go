package service

import (
	"context"
	"fmt"
	"strings"

	"appointment_booking/internal/model"
	"appointment_booking/internal/repository"
)

// UserService is the read-only user directory
type UserService interface {
	ListAll(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.UserSummary, error)
	BatchGet(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListAll(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *userService) ListByRole(ctx context.Context, role model.Role) ([]model.UserSummary, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}
	users, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	summaries := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}

// BatchGet resolves ids to summaries. Duplicate and blank ids are dropped;
// ids with no user are absent from the result.
func (s *userService) BatchGet(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	result := make(map[string]model.UserSummary, len(unique))
	if len(unique) == 0 {
		return result, nil
	}

	users, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get users: %w", err)
	}
	for _, u := range users {
		result[u.ID] = u.Summary()
	}
	return result, nil
}
