package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"career-coach/internal/shared/apperr"
	"career-coach/internal/shared/metrics"
	"career-coach/internal/shared/storage/object"
	"career-coach/internal/shared/telemetry"
	"career-coach/internal/users"
)

// DefaultMaxUploadBytes is the resume size cap when none is configured.
const DefaultMaxUploadBytes = 5 << 20

// UserResolver maps a session identity to a known user.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (users.User, error)
}

// Service orchestrates analysis creation and the owner-scoped reads.
type Service struct {
	Users          UserResolver
	Repo           Repo
	Store          object.ObjectStore
	Pipeline       *Pipeline
	MaxUploadBytes int64
	Now            func() time.Time

	validate *validator.Validate
}

func NewService(userSvc UserResolver, repo Repo, store object.ObjectStore, pipeline *Pipeline, maxUploadBytes int64) *Service {
	return &Service{
		Users:          userSvc,
		Repo:           repo,
		Store:          store,
		Pipeline:       pipeline,
		MaxUploadBytes: maxUploadBytes,
		Now:            time.Now,
		validate:       validator.New(),
	}
}

// Create analyzes an uploaded resume for the caller and persists the record.
// Precondition failures come back unwrapped. Anything after them is an
// *apperr.OpError and nothing is persisted; a stored resume file is kept.
func (s *Service) Create(ctx context.Context, userID string, req Request, upload Upload) (Record, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	req = trimRequest(req)
	if err := s.checkUpload(upload); err != nil {
		return Record{}, err
	}
	if err := s.checkRequest(req); err != nil {
		return Record{}, err
	}

	record, err := s.run(ctx, user.ID, req, upload)
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.failed", map[string]any{
			"user_id": user.ID,
			"step":    apperr.Op(err),
			"error":   err,
		})
		return Record{}, err
	}

	metrics.IncAnalysisCreated()
	telemetry.Info("analysis.created", map[string]any{
		"analysis_id":       record.ID,
		"user_id":           record.UserID,
		"ats_score":         record.ATSScore,
		"extraction_method": string(record.ExtractionMethod),
	})
	return record, nil
}

func (s *Service) run(ctx context.Context, userID string, req Request, upload Upload) (Record, error) {
	now := s.now()
	key := object.ResumeKey(userID, now)
	if _, err := s.Store.Put(ctx, key, "application/pdf", bytes.NewReader(upload.Data)); err != nil {
		return Record{}, apperr.Wrap("store resume", err)
	}

	result, err := s.Pipeline.Run(ctx, req, upload.Data)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		ID:               uuid.NewString(),
		UserID:           userID,
		CompanyName:      req.CompanyName,
		JobTitle:         req.JobTitle,
		JobDescription:   req.JobDescription,
		ResumeURL:        object.PublicPath(key),
		ExtractionMethod: result.Extraction.Method,
		ATSScore:         result.Normalized.Analysis.ATSScore,
		Analysis:         result.Normalized.Analysis,
		CreatedAt:        now.UTC(),
	}
	raw, err := encodeAnalysis(record)
	if err != nil {
		return Record{}, apperr.Wrap("encode analysis", err)
	}
	record.AnalysisJSON = raw
	if err := s.Repo.Create(ctx, record); err != nil {
		return Record{}, apperr.Wrap("persist analysis", err)
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, userID, analysisID string) (Record, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(analysisID) == "" {
		return Record{}, fmt.Errorf("%w: analysis id is required", ErrInvalidRequest)
	}
	return s.Repo.GetByID(ctx, user.ID, analysisID)
}

func (s *Service) Latest(ctx context.Context, userID string) (Record, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	return s.Repo.Latest(ctx, user.ID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByUser(ctx, user.ID, limit, offset)
}

// OpenResume streams the stored resume behind an analysis the caller owns.
func (s *Service) OpenResume(ctx context.Context, userID, analysisID string) (io.ReadCloser, Record, error) {
	record, err := s.Get(ctx, userID, analysisID)
	if err != nil {
		return nil, Record{}, err
	}
	body, err := s.Store.Open(ctx, strings.TrimPrefix(record.ResumeURL, "/"))
	if err != nil {
		return nil, Record{}, apperr.Wrap("open resume", err)
	}
	return body, record, nil
}

func (s *Service) checkUpload(upload Upload) error {
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	switch {
	case len(upload.Data) == 0:
		return fmt.Errorf("%w: resume file is empty", ErrInvalidUpload)
	case int64(len(upload.Data)) > limit:
		return fmt.Errorf("%w: resume file exceeds %d bytes", ErrInvalidUpload, limit)
	case !isPDF(upload):
		return fmt.Errorf("%w: resume must be a PDF", ErrInvalidUpload)
	}
	return nil
}

func isPDF(upload Upload) bool {
	if strings.EqualFold(filepath.Ext(upload.FileName), ".pdf") {
		return true
	}
	mediaType, _, _ := strings.Cut(upload.ContentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "application/pdf")
}

func (s *Service) checkRequest(req Request) error {
	v := s.validate
	if v == nil {
		v = validator.New()
	}
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s %s", lowerFirst(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(fields, ", "))
}

func trimRequest(req Request) Request {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	return req
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
