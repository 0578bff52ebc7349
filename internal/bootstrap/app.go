// Package bootstrap wires configuration, storage backends and services
// into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "intellihire-backend/internal/auth"
	"intellihire-backend/internal/candidates"
	"intellihire-backend/internal/llm"
	openai "intellihire-backend/internal/llm/openai"
	"intellihire-backend/internal/resumes"
	"intellihire-backend/internal/services/health"
	"intellihire-backend/internal/shared/config"
	"intellihire-backend/internal/shared/server"
	"intellihire-backend/internal/shared/storage/db"
	"intellihire-backend/internal/shared/storage/kv"
	"intellihire-backend/internal/shared/storage/object"
	localstore "intellihire-backend/internal/shared/storage/object/local"
	"intellihire-backend/internal/shared/storage/object/miniostore"
	s3store "intellihire-backend/internal/shared/storage/object/s3"
	"intellihire-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	KV     kv.Store
	Store  object.ObjectStore
	LLM    llm.Client

	ResumesRepo   resumes.Repo
	UsersRepo     users.Repo
	ResumeService *resumes.Service
	UsersService  *users.Service
	Health        *health.Service

	ResumeHandler     *resumes.Handler
	CandidatesHandler *candidates.Handler
	UsersHandler      *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and the router.
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

	kvStore, kvPinger, err := buildKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	model, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		KV:     kvStore,
		Store:  store,
		LLM:    model,
		Health: health.NewService(kvPinger, sqlDB),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		ResumeHandler:     app.ResumeHandler,
		CandidatesHandler: app.CandidatesHandler,
		UserHandler:       app.UsersHandler,
		GoogleAuth:        app.GoogleAuth,
		Health:            app.Health,
	})

	return app, nil
}

func buildServices(app *App) {
	var userRepo users.Repo
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
	}
	userSvc := users.NewService(userRepo)

	resumeRepo := resumes.NewKVRepo(app.KV)
	resumeSvc := resumes.NewService(resumeRepo, app.Store, app.LLM)

	app.ResumesRepo = resumeRepo
	app.UsersRepo = userRepo
	app.ResumeService = resumeSvc
	app.UsersService = userSvc
	app.ResumeHandler = resumes.NewHandler(resumeSvc)
	app.CandidatesHandler = candidates.NewHandler(resumeSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory user repository")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory user repository: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildKV(ctx context.Context, cfg config.Config) (kv.Store, health.Pinger, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		if !isDevLike(cfg.Env) {
			return nil, nil, fmt.Errorf("REDIS_ADDR is required")
		}
		log.Printf("bootstrap: REDIS_ADDR empty; using in-memory record store")
		return kv.NewMemoryStore(), nil, nil
	}

	store, err := kv.NewRedisStore(ctx, kv.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: redis connect failed; using in-memory record store: %v", err)
			return kv.NewMemoryStore(), nil, nil
		}
		return nil, nil, err
	}
	return store, store, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "openai" {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: openai client unavailable; analysis calls will fail until configured: %v", err)
				return llm.PlaceholderClient{}, nil
			}
			return nil, err
		}
		return client, nil
	}
	log.Printf("bootstrap: unknown LLM_PROVIDER %q; analysis calls will fail until configured", cfg.LLMProvider)
	return llm.PlaceholderClient{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
