package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/ai"
	"coverletter-backend/internal/auth"
	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/letter"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/placeholders"
	"coverletter-backend/internal/responses"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/services/health"
	"coverletter-backend/internal/sessions"
	sharedauth "coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/cache"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/storage/object"
	localstore "coverletter-backend/internal/shared/storage/object/local"
	s3store "coverletter-backend/internal/shared/storage/object/s3"
	"coverletter-backend/internal/users"
)

const (
	connectAttempts = 3
	connectBackoff  = 2 * time.Second
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Redis  *cache.Redis

	UsersRepo     users.Repo
	SessionsRepo  sessions.Repo
	ResponsesRepo responses.Repo
	ResumesRepo   resumes.Repo

	AuthService      *auth.Service
	UsersService     *users.Service
	ResponsesService *responses.Service
	ResumesService   *resumes.Service
	AIService        *ai.Service
	LetterService    *letter.Service

	closers []io.Closer
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Redis:  cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword),
	}
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}
	app.closers = append(app.closers, app.Redis)

	if err := buildServices(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	var dbPinger, cachePinger health.Pinger
	if app.DB != nil {
		dbPinger = app.DB
	}
	if app.Redis.Available() {
		cachePinger = health.PingFunc(app.Redis.Ping)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		Authenticator: app.AuthService,
		PublicPaths:   auth.PublicPaths(server.APIPrefix),
		Health:        health.NewService(dbPinger, cachePinger),
		Handlers: []server.RouteRegistrar{
			auth.NewHandler(app.AuthService),
			users.NewHandler(app.UsersService),
			responses.NewHandler(app.ResponsesService),
			resumes.NewHandler(app.ResumesService),
			jobads.NewHandler(),
			placeholders.NewHandler(),
			letter.NewHandler(app.LetterService),
			ai.NewHandler(app.AIService),
		},
	})

	return app, nil
}

// Close releases the database pool, the Redis client and AI clients.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Printf("bootstrap: close: %v", err)
		}
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.ResponsesStore == "postgres" {
			return nil, fmt.Errorf("RESPONSES_STORE=postgres requires DATABASE_URL")
		}
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.ConnectRetry(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()), connectAttempts, connectBackoff)
	}
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) && cfg.ResponsesStore != "postgres" {
			log.Printf("bootstrap: database unavailable; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildResponsesRepo(cfg config.Config, sqlDB *sql.DB) (responses.Repo, error) {
	store := cfg.ResponsesStore
	if store == "auto" {
		store = "file"
		if sqlDB != nil {
			store = "postgres"
		}
	}
	switch store {
	case "postgres":
		if sqlDB == nil {
			return nil, errors.New("RESPONSES_STORE=postgres requires a database")
		}
		return &responses.PGRepo{DB: sqlDB}, nil
	case "file":
		return responses.NewFileRepo(cfg.ResponsesFile)
	default:
		return responses.NewMemoryRepo(), nil
	}
}

func buildCompleter(ctx context.Context, cfg config.Config) (ai.Completer, io.Closer, error) {
	switch cfg.LLMProvider {
	case ai.ProviderOpenAI:
		c, err := ai.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.LLMModel, 0)
		return c, nil, err
	case ai.ProviderGemini:
		c, err := ai.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	default:
		return nil, nil, nil
	}
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.SessionsRepo = &sessions.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.SessionsRepo = sessions.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}
	responsesRepo, err := buildResponsesRepo(cfg, app.DB)
	if err != nil {
		return err
	}
	app.ResponsesRepo = responsesRepo

	signer, err := sharedauth.NewSigner(cfg.JWTSecret)
	if err != nil {
		return err
	}
	app.UsersService = users.NewService(app.UsersRepo)
	app.AuthService = auth.NewService(app.UsersRepo, app.SessionsRepo, signer, cfg.SessionTTL)
	app.ResponsesService = responses.NewService(app.ResponsesRepo)

	extractor := extract.New(extract.Options{MaxPages: cfg.ParseMaxPages, Timeout: cfg.ParseTimeout})
	resumeSvc := resumes.NewService(app.ResumesRepo, extractor, app.ResponsesService)
	resumeSvc.Store = app.Store
	resumeSvc.MaxBytes = cfg.MaxUploadBytes
	if cfg.VocabularyFile != "" {
		vocab, err := parsing.LoadVocabularyFile(cfg.VocabularyFile)
		if err != nil {
			return err
		}
		resumeSvc.Keywords = parsing.NewKeywordExtractor(vocab)
	}
	app.ResumesService = resumeSvc

	completer, closer, err := buildCompleter(ctx, cfg)
	if err != nil {
		if !isDevLike(cfg.Env) {
			return err
		}
		log.Printf("bootstrap: AI provider %s disabled: %v", cfg.LLMProvider, err)
		completer = nil
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	app.AIService = ai.NewService(completer, ai.NewQuotaFlag(app.Redis, cfg.AIQuotaCooldown))

	var pdf letter.Renderer
	if cfg.ChromePDF {
		pdf = &letter.ChromePDFRenderer{}
	}
	app.LetterService = letter.NewService(pdf)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
