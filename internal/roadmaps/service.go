package roadmaps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"career-coach/internal/llm"
	"career-coach/internal/shared/apperr"
	"career-coach/internal/shared/metrics"
	"career-coach/internal/shared/telemetry"
	"career-coach/internal/users"
)

// UserResolver maps a session identity to a known user.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (users.User, error)
}

// Generator prompts the model for a roadmap and normalizes the reply.
type Generator struct {
	LLM llm.Client
}

func (g *Generator) Generate(ctx context.Context, field string) (Normalized, error) {
	prompt := llm.BuildRoadmapPrompt(field)

	start := time.Now()
	reply, err := g.LLM.Complete(ctx, prompt)
	metrics.ObserveGenerationDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return Normalized{}, apperr.Wrap("generate roadmap", err)
	}
	normalized, err := Normalize(reply)
	if err != nil {
		return Normalized{}, apperr.Wrap("normalize roadmap", err)
	}
	if len(normalized.DroppedEdges) > 0 {
		telemetry.Warn("roadmap.edges.dropped", map[string]any{
			"prompt_hash": llm.PromptHash(prompt),
			"edge_ids":    normalized.DroppedEdges,
		})
	}
	return normalized, nil
}

type Service struct {
	Users     UserResolver
	Repo      Repo
	Generator *Generator
	Now       func() time.Time

	validate *validator.Validate
}

func NewService(userSvc UserResolver, repo Repo, client llm.Client) *Service {
	return &Service{
		Users:     userSvc,
		Repo:      repo,
		Generator: &Generator{LLM: client},
		Now:       time.Now,
		validate:  validator.New(),
	}
}

// Create generates a roadmap for field and persists it. Precondition
// failures are returned unwrapped; later failures are *apperr.OpError and
// leave nothing persisted.
func (s *Service) Create(ctx context.Context, userID, field string) (Record, error) {
	user, field, err := s.preconditions(ctx, userID, field)
	if err != nil {
		return Record{}, err
	}

	record, err := s.create(ctx, user.ID, field)
	if err != nil {
		metrics.IncRoadmapFailed()
		telemetry.Error("roadmap.failed", map[string]any{"user_id": user.ID, "step": apperr.Op(err), "error": err})
		return Record{}, err
	}
	metrics.IncRoadmapCreated()
	telemetry.Info("roadmap.created", map[string]any{
		"roadmap_id": record.ID,
		"user_id":    record.UserID,
		"nodes":      len(record.Graph.InitialNodes),
		"edges":      len(record.Graph.InitialEdges),
	})
	return record, nil
}

func (s *Service) create(ctx context.Context, userID, field string) (Record, error) {
	normalized, err := s.Generator.Generate(ctx, field)
	if err != nil {
		return Record{}, err
	}
	title := strings.TrimSpace(normalized.Graph.RoadmapTitle)
	if title == "" {
		title = field
	}
	record := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Field:     field,
		Title:     title,
		Graph:     normalized.Graph,
		CreatedAt: s.now().UTC(),
	}
	raw, err := encodeGraph(record)
	if err != nil {
		return Record{}, apperr.Wrap("encode roadmap", err)
	}
	record.GraphJSON = raw
	if err := s.Repo.Create(ctx, record); err != nil {
		return Record{}, apperr.Wrap("persist roadmap", err)
	}
	return record, nil
}

// Preview generates a roadmap without saving it.
func (s *Service) Preview(ctx context.Context, userID, field string) (Graph, error) {
	_, field, err := s.preconditions(ctx, userID, field)
	if err != nil {
		return Graph{}, err
	}
	normalized, err := s.Generator.Generate(ctx, field)
	if err != nil {
		return Graph{}, err
	}
	return normalized.Graph, nil
}

func (s *Service) Get(ctx context.Context, userID, roadmapID string) (Record, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(roadmapID) == "" {
		return Record{}, fmt.Errorf("%w: roadmap id is required", ErrInvalidRequest)
	}
	return s.Repo.GetByID(ctx, user.ID, roadmapID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByUser(ctx, user.ID, limit, offset)
}

func (s *Service) preconditions(ctx context.Context, userID, field string) (users.User, string, error) {
	user, err := s.Users.Resolve(ctx, userID)
	if err != nil {
		return users.User{}, "", err
	}
	req := Request{Field: strings.TrimSpace(field)}
	v := s.validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return users.User{}, "", fmt.Errorf("%w: field %s", ErrInvalidRequest, verrs[0].Tag())
		}
		return users.User{}, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return user, llm.CleanField(req.Field), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
