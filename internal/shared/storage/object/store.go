package object

import (
	"context"
	"fmt"
	"io"
	"time"

	"career-coach/internal/shared/util"
)

// ObjectStore saves and retrieves binary objects by key.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// UploadsPrefix is the key prefix under which resumes are stored.
const UploadsPrefix = "uploads"

// ResumeKey names an uploaded resume: uploads/resume_<userId>_<epochMillis>.pdf.
func ResumeKey(userID string, at time.Time) string {
	return fmt.Sprintf("%s/resume_%s_%d.pdf", UploadsPrefix, util.SafeSegment(userID), at.UnixMilli())
}

// PublicPath is the stable relative URL a stored key is served under.
func PublicPath(key string) string {
	return "/" + key
}
