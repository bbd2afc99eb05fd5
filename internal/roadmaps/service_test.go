package roadmaps

import (
	"context"
	"errors"
	"strings"
	"testing"

	"career-coach/internal/shared/apperr"
	"career-coach/internal/users"
)

const testUserID = "google:7"

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newTestService(t *testing.T, client *fakeLLM) (*Service, *MemoryRepo) {
	t.Helper()
	userRepo := users.NewMemoryRepo()
	if err := userRepo.Upsert(context.Background(), users.User{ID: testUserID, Email: "u@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	repo := NewMemoryRepo()
	return NewService(users.NewService(userRepo), repo, client), repo
}

func TestCreatePersistsGraph(t *testing.T) {
	client := &fakeLLM{reply: validGraph}
	svc, repo := newTestService(t, client)

	record, err := svc.Create(context.Background(), testUserID, "  Go   backend ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.Field != "Go backend" || record.Title != "Go Backend" {
		t.Fatalf("unexpected record %+v", record)
	}
	if !strings.Contains(client.prompts[0], "Go backend") {
		t.Fatalf("prompt missing field")
	}
	stored, err := repo.GetByID(context.Background(), testUserID, record.ID)
	if err != nil || string(stored.GraphJSON) != string(record.GraphJSON) {
		t.Fatalf("stored record differs: %v", err)
	}
}

func TestCreateUnparseablePersistsNothing(t *testing.T) {
	client := &fakeLLM{reply: "```json\nnot json at all\n```"}
	svc, repo := newTestService(t, client)

	_, err := svc.Create(context.Background(), testUserID, "Data engineering")
	if !errors.Is(err, ErrUnparseableReply) {
		t.Fatalf("expected ErrUnparseableReply, got %v", err)
	}
	var opErr *apperr.OpError
	if !errors.As(err, &opErr) || opErr.Op != "normalize roadmap" {
		t.Fatalf("expected normalize op error, got %v", err)
	}
	if records, _ := repo.ListByUser(context.Background(), testUserID, 0, 0); len(records) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(records))
	}
}

func TestPreconditions(t *testing.T) {
	client := &fakeLLM{reply: validGraph}
	svc, _ := newTestService(t, client)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", "Go"); !errors.Is(err, users.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Create(ctx, "google:ghost", "Go"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Preview(ctx, testUserID, "   "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if len(client.prompts) != 0 {
		t.Fatalf("expected no generation calls")
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	client := &fakeLLM{reply: validGraph}
	svc, repo := newTestService(t, client)

	graph, err := svc.Preview(context.Background(), testUserID, "Go")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(graph.InitialNodes) != 2 {
		t.Fatalf("unexpected graph %+v", graph)
	}
	if records, _ := repo.ListByUser(context.Background(), testUserID, 0, 0); len(records) != 0 {
		t.Fatalf("preview persisted a record")
	}
}

func TestGetIsOwnerScoped(t *testing.T) {
	client := &fakeLLM{reply: validGraph}
	svc, repo := newTestService(t, client)
	record, err := svc.Create(context.Background(), testUserID, "Go")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "google:other", record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got, err := svc.Get(context.Background(), testUserID, record.ID); err != nil || got.ID != record.ID {
		t.Fatalf("Get: %+v %v", got, err)
	}
}
