package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeAnalysisFromStdin(t *testing.T) {
	reply := "Here you go:\n```json\n{\"atsScore\":150,\"strengths\":[\"ok\"],\"suggestions\":[]}\n```"
	out, err := run(t, reply, "normalize", "analysis", "--job-title", "SRE", "--company", "Acme", "-")
	if err != nil {
		t.Fatalf("normalize analysis: %v", err)
	}
	var got struct {
		Analysis struct {
			Summary  string `json:"summary"`
			ATSScore int    `json:"atsScore"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Analysis.ATSScore != 100 || got.Analysis.Summary != "Analysis completed for SRE position at Acme" {
		t.Fatalf("unexpected output %+v", got)
	}
}

func TestNormalizeRoadmapRejectsBadReply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	if err := os.WriteFile(path, []byte("no json here"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := run(t, "", "normalize", "roadmap", path); err == nil {
		t.Fatalf("expected error for unparseable roadmap")
	}
}

func TestExtractGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "", "extract", "--json", "--fallback-timeout", "2s", path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, `"method": "none"`) {
		t.Fatalf("expected method none, got %s", out)
	}
}

func TestAnalyzeRequiresJobDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	_ = os.WriteFile(path, []byte("%PDF"), 0o600)
	if _, err := run(t, "", "analyze", path); err == nil {
		t.Fatalf("expected missing job description error")
	}
}
