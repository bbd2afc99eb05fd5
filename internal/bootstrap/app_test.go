package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"career-coach/internal/llm"
	"career-coach/internal/shared/config"
)

func TestBuildDevUsesMemory(t *testing.T) {
	cfg := config.Config{
		Env:                   "dev",
		LocalStoreDir:         t.TempDir(),
		LLMProvider:           "placeholder",
		GenerateRatePerMinute: 6,
		GenerateBurst:         3,
	}
	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database in dev without DATABASE_URL")
	}
	if _, err := app.LLM.Complete(context.Background(), "x"); !errors.Is(err, llm.ErrNotImplemented) {
		t.Fatalf("expected placeholder client, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-User-Id", DevUserID)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected seeded dev user, got %d", rec.Code)
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	_, err := Build(context.Background(), config.Config{Env: "production", LLMProvider: "placeholder"})
	if err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildStoreRequiresBucket(t *testing.T) {
	if _, err := BuildStore(context.Background(), config.Config{ObjectStoreType: "s3"}); err == nil {
		t.Fatalf("expected error without S3_BUCKET")
	}
}
