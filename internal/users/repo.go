package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the identity has no user record.
	ErrNotFound = errors.New("user not found")
	// ErrUnauthorized means the caller has no identity at all.
	ErrUnauthorized = errors.New("unauthorized")
)

type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
}
