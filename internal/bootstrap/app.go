package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"enhanceme/internal/analyses"
	"enhanceme/internal/llm"
	openai "enhanceme/internal/llm/openai"
	"enhanceme/internal/present"
	"enhanceme/internal/scoring"
	"enhanceme/internal/services/health"
	"enhanceme/internal/session"
	"enhanceme/internal/shared/config"
	"enhanceme/internal/shared/server"
	"enhanceme/internal/shared/storage/db"
	"enhanceme/internal/shared/storage/object"
	localstore "enhanceme/internal/shared/storage/object/local"
	s3store "enhanceme/internal/shared/storage/object/s3"
	"enhanceme/internal/shared/telemetry"
)

const (
	storeConnectWait = 30 * time.Second
	purgeInterval    = 10 * time.Minute
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	Sessions     session.Store
	Archive      object.Store
	Analyzer     analyses.Analyzer
	Orchestrator *analyses.Orchestrator
	Health       *health.Service

	closers []func() error
}

// Build prepares every dependency and wires the routes. Background work
// started here stops when ctx is canceled.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg, Health: health.NewService()}

	sessions, err := app.buildSessions(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sessions = sessions

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Archive = archive

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Analyzer = analyzer
	app.Orchestrator = analyses.NewOrchestrator(app.Analyzer, sessions, archive, cfg.AnalysisTimeout, cfg.SessionTTL)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		AnalysisHandler:   analyses.NewHandler(app.Analyzer, app.Orchestrator),
		HeuristicsHandler: scoring.NewHandler(sessions),
		PresentHandler:    present.NewHandler(app.Orchestrator),
		Health:            app.Health,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"session_store": cfg.SessionStore,
		"object_store":  cfg.ObjectStoreType,
		"mock":          cfg.UseMockData,
		"model":         cfg.AIModel,
	})
	return app, nil
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildSessions(ctx context.Context) (session.Store, error) {
	cfg := a.Config
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		a.closers = append(a.closers, client.Close)
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		if err := db.WaitReady(ctx, "redis", storeConnectWait, ping); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		a.Health.Register("sessions", ping)
		return session.NewRedisStore(client, cfg.SessionTTL), nil

	case config.SessionStorePostgres:
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromConfig(db.DefaultServerOptions(), cfg.DB))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.Health.Register("sessions", sqlDB.PingContext)
		store := &session.PGStore{DB: sqlDB, TTL: cfg.SessionTTL}
		go purgeExpired(ctx, store, purgeInterval)
		return store, nil

	default:
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
}

// purgeExpired deletes expired session rows until ctx ends.
func purgeExpired(ctx context.Context, store *session.PGStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, sql.ErrConnDone) {
					telemetry.Warn("session.purge_failed", map[string]any{"error": err.Error()})
				}
				continue
			}
			if n > 0 {
				telemetry.Info("session.purged", map[string]any{"rows": n})
			}
		}
	}
}

func buildArchive(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case config.ObjectStoreS3:
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case config.ObjectStoreLocal:
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

// buildAnalyzer returns the in-process proxy. Without an API key the proxy
// has no client and answers ErrNotConfigured unless mock mode is on.
func buildAnalyzer(cfg config.Config) (analyses.Analyzer, error) {
	var client llm.Client
	if strings.TrimSpace(cfg.AIAPIKey) != "" {
		c, err := openai.NewClient(cfg.AIURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
		if err != nil {
			return nil, fmt.Errorf("build provider client: %w", err)
		}
		client = c
	} else if !cfg.UseMockData {
		telemetry.Warn("bootstrap.ai_key_missing", map[string]any{"hint": "set AI_API_KEY or USE_MOCK_DATA=true"})
	}
	return analyses.NewProxy(analyses.ProxyConfig{
		APIKey:      cfg.AIAPIKey,
		Model:       cfg.AIModel,
		UseMockData: cfg.UseMockData,
	}, client), nil
}
