package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"career-coach/internal/analyses"
	googleauth "career-coach/internal/auth"
	"career-coach/internal/extract"
	"career-coach/internal/llm"
	"career-coach/internal/llm/gemini"
	"career-coach/internal/llm/openai"
	"career-coach/internal/roadmaps"
	"career-coach/internal/services/health"
	"career-coach/internal/shared/config"
	"career-coach/internal/shared/server"
	"career-coach/internal/shared/server/middleware"
	"career-coach/internal/shared/storage/db"
	"career-coach/internal/shared/storage/object"
	localstore "career-coach/internal/shared/storage/object/local"
	s3store "career-coach/internal/shared/storage/object/s3"
	"career-coach/internal/shared/telemetry"
	"career-coach/internal/users"
)

// DevUserID is seeded into the in-memory user repo so dev requests can use
// X-User-Id without signing in.
const DevUserID = "dev-user"

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	LLM             llm.Client
	UsersService    *users.Service
	AnalysesService *analyses.Service
	RoadmapsService *roadmaps.Service

	closers []func() error
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := BuildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, closeLLM, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store, LLM: client}
	app.closers = append(app.closers, closeLLM)
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	if err := buildServices(ctx, app); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases the database and the model client.
func (a *App) Close() error {
	var first error
	for _, fn := range a.closers {
		if fn == nil {
			continue
		}
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

// BuildStore returns the file store resumes are written to.
func BuildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildLLM constructs the one generation client the process uses. The
// returned func releases it.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, func() error, error) {
	noop := func() error { return nil }
	model := cfg.ModelName()

	var client llm.Client
	closer := noop
	switch cfg.LLMProvider {
	case "openai":
		c, err := openai.NewClient(cfg.OpenAIAPIKey, model, cfg.LLMTimeout)
		if err != nil {
			return nil, noop, err
		}
		client = c
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, noop, err
		}
		client, closer = c, c.Close
	default:
		telemetry.Warn("bootstrap.llm.placeholder", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, noop, nil
	}

	telemetry.Info("bootstrap.llm", map[string]any{"provider": cfg.LLMProvider, "model": model})
	return llm.WithTimeout(client, cfg.LLMTimeout), closer, nil
}

func buildServices(ctx context.Context, app *App) error {
	var (
		userRepo     users.Repo
		analysisRepo analyses.Repo
		roadmapRepo  roadmaps.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		roadmapRepo = &roadmaps.PGRepo{DB: app.DB}
	} else {
		memUsers := users.NewMemoryRepo()
		if err := memUsers.Upsert(ctx, users.User{ID: DevUserID, Email: "dev@localhost", Name: "Dev User", Provider: "dev"}); err != nil {
			return err
		}
		userRepo = memUsers
		analysisRepo = analyses.NewMemoryRepo()
		roadmapRepo = roadmaps.NewMemoryRepo()
	}

	cfg := app.Config
	userSvc := users.NewService(userRepo)
	pipeline := &analyses.Pipeline{
		Extractor: extract.New(cfg.ExtractFallbackTimeout),
		LLM:       app.LLM,
		Policy:    analyses.DefaultPolicy,
	}
	app.UsersService = userSvc
	app.AnalysesService = analyses.NewService(userSvc, analysisRepo, app.Store, pipeline, cfg.MaxUploadBytes)
	app.RoadmapsService = roadmaps.NewService(userSvc, roadmapRepo, app.LLM)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: analyses.NewHandler(app.AnalysesService),
		RoadmapHandler:  roadmaps.NewHandler(app.RoadmapsService),
		UserHandler:     users.NewHandler(userSvc),
		GoogleAuth: googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			userSvc,
		),
		Health:  newHealth(app.DB),
		Limiter: middleware.NewRateLimiter(nil),
	})
	return nil
}

func newHealth(sqlDB *sql.DB) *health.Service {
	if sqlDB == nil {
		return health.NewService(nil)
	}
	return health.NewService(sqlDB)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
