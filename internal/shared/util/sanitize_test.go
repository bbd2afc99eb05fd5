package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " dir/resume.pdf ", want: "dir_resume.pdf"},
		{in: `c:\resume.pdf`, want: "c:_resume.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestSafeSegment(t *testing.T) {
	if got := SafeSegment("google:12345"); got != "google_12345" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SafeSegment("ü/x"); got != "__x" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SafeSegment(""); got != "anonymous" {
		t.Fatalf("unexpected %q", got)
	}
}
