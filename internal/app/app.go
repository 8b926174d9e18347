package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	domaininterfaces "github.com/Wandor/journaling-node/internal/domain/interfaces"
	"github.com/Wandor/journaling-node/internal/events/kafka"
	httpHandler "github.com/Wandor/journaling-node/internal/handler/http"
	dbPostgres "github.com/Wandor/journaling-node/internal/infrastructure/database/postgres"
	"github.com/Wandor/journaling-node/internal/infrastructure/security"
	"github.com/Wandor/journaling-node/internal/queue"
	repoPostgres "github.com/Wandor/journaling-node/internal/repository/postgres"
	repoRedis "github.com/Wandor/journaling-node/internal/repository/redis"
	"github.com/Wandor/journaling-node/internal/service"
	"github.com/Wandor/journaling-node/internal/worker"
	"github.com/Wandor/journaling-node/internal/worker/sentiment"
)

// passwordSweepInterval is how often expired password rows are swept.
const passwordSweepInterval = 24 * time.Hour

// App wires the whole service together and owns its lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	pool    *pgxpool.Pool
	redis   *goredis.Client
	events  domaininterfaces.EventPublisher
	manager *queue.ConnectionManager
	server  *http.Server
}

// New builds the dependency graph from configuration.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Database.MigrationsPath != "" {
		if err := dbPostgres.RunMigrations(cfg.Database, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := dbPostgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	redisClient, err := repoRedis.NewClient(cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	kvStore := repoRedis.NewStore(redisClient, logger, nil)
	sessionStore := repoRedis.NewSessionStore(kvStore, logger, cfg.Session.TTLSeconds)

	userStore := repoPostgres.NewUserRepository(pool)
	passwordStore := repoPostgres.NewPasswordRepository(pool)
	prefsStore := repoPostgres.NewPreferencesRepository(pool)
	journalStore := repoPostgres.NewJournalRepository(pool)
	sentimentStore := repoPostgres.NewSentimentRepository(pool)
	analyticsStore := repoPostgres.NewAnalyticsRepository(pool)

	hasher, err := security.NewArgon2idHasher(security.DefaultArgon2idParams())
	if err != nil {
		return nil, fmt.Errorf("init password hasher: %w", err)
	}
	tokens, err := security.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init jwt service: %w", err)
	}

	var events domaininterfaces.EventPublisher
	if cfg.Kafka.Enabled {
		events = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "journal-service", logger)
	}

	authService := service.NewAuthService(
		userStore, passwordStore, prefsStore, sessionStore,
		hasher, tokens, events, cfg, logger,
	)

	entryWorker := worker.NewEntryWorker(
		prefsStore, journalStore, sentimentStore, analyticsStore,
		buildSentimentAnalyzer(cfg.Worker, logger),
		buildEntryAnalyzer(cfg.Worker, logger),
		logger.Named("worker"),
	)

	dispatcher := queue.NewDispatcher(ctx, cfg.AMQP, entryWorker.Handle, logger.Named("dispatcher"))
	manager := queue.NewConnectionManager(cfg.AMQP, queue.AMQPDial, dispatcher, logger.Named("queue"))

	journalService := service.NewJournalService(journalStore, manager, cfg.AMQP, logger)

	healthHandler := httpHandler.NewHealthHandler(pool, redisClient, manager)
	router := httpHandler.SetupRouter(authService, journalService, tokens, healthHandler, cfg, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	app := &App{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		redis:   redisClient,
		events:  events,
		manager: manager,
		server:  server,
	}
	go app.sweepPasswords(ctx, authService)
	return app, nil
}

// Run starts the queue manager and HTTP server and blocks until a
// shutdown signal, then tears everything down in order.
func (a *App) Run() error {
	a.manager.Start()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdown()
		return err
	case sig := <-quit:
		a.logger.Info("Shutting down", zap.String("signal", sig.String()))
		a.shutdown()
		return nil
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// Close drains the offline buffer bookkeeping and stops the consumer;
	// in-flight deliveries are redelivered by the broker.
	a.manager.Close()

	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error("Event producer close failed", zap.Error(err))
		}
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error("Redis close failed", zap.Error(err))
	}
	a.pool.Close()
}

func (a *App) sweepPasswords(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(passwordSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.SweepExpiredPasswords(ctx)
		}
	}
}

func buildSentimentAnalyzer(cfg config.WorkerConfig, logger *zap.Logger) domaininterfaces.SentimentAnalyzer {
	if cfg.SentimentAnalyzer == "sentiment" || cfg.AnalyzerURL == "" {
		return sentiment.NewLexiconAnalyzer()
	}
	return sentiment.NewRemoteAnalyzer(cfg.AnalyzerURL, cfg.AnalyzerTimeout, logger)
}

func buildEntryAnalyzer(cfg config.WorkerConfig, logger *zap.Logger) domaininterfaces.EntryAnalyzer {
	if cfg.AnalyzerURL == "" {
		return nil
	}
	return sentiment.NewRemoteAnalyzer(cfg.AnalyzerURL, cfg.AnalyzerTimeout, logger)
}
