package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"claims-backend/internal/activity"
	"claims-backend/internal/analyzer"
	openaiclient "claims-backend/internal/analyzer/openai"
	"claims-backend/internal/documents"
	"claims-backend/internal/extract"
	"claims-backend/internal/shared/config"
	"claims-backend/internal/shared/server"
	"claims-backend/internal/shared/storage/db"
	"claims-backend/internal/shared/storage/object"
	localstore "claims-backend/internal/shared/storage/object/local"
	s3store "claims-backend/internal/shared/storage/object/s3"
	"claims-backend/internal/shared/telemetry"
)

// App holds shared dependencies behind the HTTP surface.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DocumentsRepo    documents.DocumentsRepo
	ActivityRecorder activity.Recorder
	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
	ActivityHandler  *activity.Handler
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
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	reconcile(ctx, app.DocumentsRepo)

	app.Router = server.NewRouter(cfg, server.RouterDeps{
		DocumentsHandler: app.DocumentsHandler,
		ActivityHandler:  app.ActivityHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
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

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
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

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var recorder activity.Recorder

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		recorder = activity.NewPGRecorder(app.DB)
	} else {
		docRepo = documents.NewMemoryRepo()
		recorder = activity.NewMemoryRecorder()
	}

	cfg := app.Config
	if len(cfg.AllowedMediaTypes) == 0 {
		cfg.AllowedMediaTypes = config.DefaultAllowedMediaTypes
	}

	var ocr extract.Extractor
	if strings.TrimSpace(cfg.TesseractBin) != "" {
		ocr = extract.NewOCRExtractor(cfg.TesseractBin, cfg.TesseractLang)
	}
	dispatcher := extract.DefaultDispatcher(cfg.ExtractTimeout, ocr)

	var primary analyzer.Analyzer
	if cfg.LLMProvider == "openai" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey != "" {
			client, err := openaiclient.NewClient(apiKey, cfg.LLMModel, cfg.AnalyzeTimeout)
			if err != nil {
				return err
			}
			primary = client
		} else {
			log.Printf("bootstrap: OPENAI_API_KEY empty; analysis uses fallback results")
		}
	}

	docSvc := &documents.Service{
		Store:             app.Store,
		Repo:              docRepo,
		Dispatcher:        dispatcher,
		Analyzer:          analyzer.NewFailover(primary),
		Activity:          recorder,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		AllowedMediaTypes: cfg.AllowedMediaTypes,
	}

	app.DocumentsRepo = docRepo
	app.ActivityRecorder = recorder
	app.DocumentsService = docSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ActivityHandler = activity.NewHandler(recorder)

	return nil
}

// reconcile reports documents left in a non-terminal status by an earlier
// run. They stay untouched; operators decide whether to resubmit.
func reconcile(ctx context.Context, repo documents.DocumentsRepo) {
	docs, err := repo.ListNonTerminal(ctx)
	if err != nil {
		telemetry.Warn("documents.reconcile", map[string]any{"error": err.Error()})
		return
	}
	if len(docs) == 0 {
		return
	}
	telemetry.Warn("documents.reconcile.pending", map[string]any{
		"count": len(docs),
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
