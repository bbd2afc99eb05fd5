package users

import (
	"context"
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, " "); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Resolve(ctx, "google:missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@b.c", Name: "Ada"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	user, err := svc.Resolve(ctx, "google:1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Name != "Ada" || user.Provider != "google" || user.LastLoginAt == nil {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_ = repo.Upsert(ctx, User{ID: "google:1", Email: "a@b.c"})
	first, _ := repo.GetByID(ctx, "google:1")
	_ = repo.Upsert(ctx, User{ID: "google:1", Email: "new@b.c"})
	second, _ := repo.GetByID(ctx, "google:1")
	if !second.CreatedAt.Equal(first.CreatedAt) || second.Email != "new@b.c" {
		t.Fatalf("unexpected upsert result %+v", second)
	}
}

func TestUpsertFromAuthRequiresEmail(t *testing.T) {
	if err := NewService(NewMemoryRepo()).UpsertFromAuth(context.Background(), User{ID: "google:1"}); err == nil {
		t.Fatalf("expected validation error")
	}
}
