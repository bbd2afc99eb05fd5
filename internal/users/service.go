package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth records a sign-in so later requests resolve to a user.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	return s.Repo.Upsert(ctx, user)
}

// Resolve maps a session identity to its user record. A blank identity is
// ErrUnauthorized and an unknown one is ErrNotFound; both are returned
// unwrapped so callers can tell them apart.
func (s *Service) Resolve(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrUnauthorized
	}
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	return s.Repo.GetByID(ctx, userID)
}
