package analyses

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepoOwnershipAndOrder(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a1", "a2", "a3"} {
		err := repo.Create(ctx, Record{ID: id, UserID: "google:1", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	_ = repo.Create(ctx, Record{ID: "b1", UserID: "google:2", CreatedAt: base.Add(time.Hour)})

	latest, err := repo.Latest(ctx, "google:1")
	if err != nil || latest.ID != "a3" {
		t.Fatalf("expected a3, got %+v (%v)", latest, err)
	}
	if _, err := repo.GetByID(ctx, "google:2", "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected other users' records to be hidden, got %v", err)
	}
	page, err := repo.ListByUser(ctx, "google:1", 2, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(page) != 2 || page[0].ID != "a2" || page[1].ID != "a1" {
		t.Fatalf("unexpected page %+v", page)
	}
	if _, err := repo.Latest(ctx, "google:3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty history, got %v", err)
	}
}

func TestMemoryRepoRoundTripBytes(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	raw := []byte(`{"summary":"x","atsScore":1}`)
	if err := repo.Create(ctx, Record{ID: "a1", UserID: "u", AnalysisJSON: raw}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	raw[2] = 'X'
	got, _ := repo.GetByID(ctx, "u", "a1")
	if !bytes.Equal(got.AnalysisJSON, []byte(`{"summary":"x","atsScore":1}`)) {
		t.Fatalf("stored bytes were aliased: %s", got.AnalysisJSON)
	}
}
