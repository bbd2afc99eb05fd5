package analyses

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"career-coach/internal/extract"
	"career-coach/internal/shared/storage/object/local"
	"career-coach/internal/users"
)

const testUserID = "google:42"

const goodReply = "```json\n" + `{
  "summary": "Good fit for the role.",
  "atsScore": 82,
  "strengths": ["Go microservices", "On-call ownership"],
  "weaknesses": ["No Kafka experience listed"],
  "keywordMatches": {"matched": ["Go", "Postgres"], "missing": ["Kafka"]},
  "suggestions": ["Quantify the throughput gains of the billing rewrite"],
  "skillsAnalysis": {"present": ["Docker"], "recommended": ["Terraform"]}
}` + "\n```"

type fakeExtractor struct {
	result extract.Result
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) extract.Result {
	f.calls++
	return f.result
}

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type testEnv struct {
	svc       *Service
	repo      *MemoryRepo
	llm       *fakeLLM
	extractor *fakeExtractor
	storeDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	userRepo := users.NewMemoryRepo()
	if err := userRepo.Upsert(context.Background(), users.User{ID: testUserID, Email: "dev@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	env := &testEnv{
		repo:      NewMemoryRepo(),
		llm:       &fakeLLM{reply: goodReply},
		extractor: &fakeExtractor{result: extract.Result{Text: "Jane Doe, Go engineer", Method: extract.MethodPrimary}},
		storeDir:  t.TempDir(),
	}
	pipeline := &Pipeline{Extractor: env.extractor, LLM: env.llm, Policy: DefaultPolicy}
	env.svc = NewService(users.NewService(userRepo), env.repo, local.New(env.storeDir), pipeline, 1024)
	env.svc.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	return env
}

func (e *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(e.storeDir, "uploads", "*.pdf"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

func validRequest() Request {
	return Request{CompanyName: "Acme", JobTitle: "Backend Engineer", JobDescription: "Go, Postgres, Kafka"}
}

func pdfUpload() Upload {
	return Upload{FileName: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 test")}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return payload
}
