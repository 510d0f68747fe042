package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/cache"
	eventadapter "github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/events"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/gateway"
	httpadapter "github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/http"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/memory"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/postgres"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/security"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping contract lifecycle service", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	cleanup := func(context.Context) {}

	var deps application.Dependencies
	deps.Logger = logger
	deps.Config = application.Config{
		ServiceName:              cfg.ServiceID,
		DefaultCurrency:          cfg.DefaultCurrency,
		DefaultCommissionPercent: cfg.DefaultCommissionPercent,
		ChecklistDeadline:        cfg.ChecklistDeadline,
		KeyHandoverLeadTime:      cfg.KeyHandoverLeadTime,
		KeyHandoverHour:          cfg.KeyHandoverHour,
	}

	var outboxRepo ports.OutboxRepository
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := pool.DB()
		if err != nil {
			return nil, fmt.Errorf("gorm sql db: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		repos := postgres.NewRepositories(pool)
		deps.Contracts = repos.Contracts
		deps.Payments = repos.Payments
		deps.Checklists = repos.Checklists
		deps.Templates = repos.Templates
		deps.KeyCollections = repos.KeyCollections
		deps.Properties = repos.Properties
		deps.Outbox = repos.Outbox
		outboxRepo = repos.Outbox
		cleanup = func(context.Context) { _ = sqlDB.Close() }
	} else {
		logger.Warn("no postgres url configured, using in-memory repositories")
		repos := memory.NewRepositories()
		deps.Contracts = repos.Contracts
		deps.Payments = repos.Payments
		deps.Checklists = repos.Checklists
		deps.Templates = repos.Templates
		deps.KeyCollections = repos.KeyCollections
		deps.Properties = repos.Properties
		deps.Outbox = repos.Outbox
		outboxRepo = repos.Outbox
	}

	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		deps.Commission = cacheadapter.NewRedisCommissionStore(redisClient)
		prev := cleanup
		cleanup = func(ctx context.Context) {
			_ = redisClient.Close()
			prev(ctx)
		}
	} else {
		logger.Warn("no redis url configured, using in-memory commission store")
		deps.Commission = &memory.CommissionStore{}
	}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
		prev := cleanup
		cleanup = func(ctx context.Context) {
			_ = kafkaPublisher.Close()
			prev(ctx)
		}
	} else {
		logger.Warn("no kafka brokers configured, events stay in process")
		publisher = &eventadapter.MemoryPublisher{}
	}

	if cfg.ProcessorBaseURL != "" {
		deps.Processor = gateway.NewProcessorClient(gateway.ProcessorConfig{BaseURL: cfg.ProcessorBaseURL, APIKey: cfg.ProcessorAPIKey})
	} else {
		logger.Warn("no processor configured, minting local charge intents")
		deps.Processor = &gateway.FakeProcessor{}
	}
	if cfg.StorageBaseURL != "" {
		deps.Storage = gateway.NewStorageClient(gateway.StorageConfig{BaseURL: cfg.StorageBaseURL, Bucket: cfg.StorageBucket, APIKey: cfg.StorageAPIKey})
	} else {
		deps.Storage = &gateway.MemoryStorage{}
	}
	if cfg.DocgenBaseURL != "" {
		deps.Documents = gateway.NewDocumentClient(gateway.DocumentConfig{BaseURL: cfg.DocgenBaseURL, APIKey: cfg.DocgenAPIKey})
	} else {
		deps.Documents = &gateway.StaticDocumentGenerator{}
	}
	if cfg.NotifierBaseURL != "" {
		deps.Notifier = gateway.NewNotifierClient(gateway.NotifierConfig{BaseURL: cfg.NotifierBaseURL, APIKey: cfg.NotifierAPIKey})
	} else {
		deps.Notifier = &gateway.RecordingNotifier{}
	}

	svc := application.NewService(deps)

	var verifier *security.JWTVerifier
	if cfg.JWTSecret != "" {
		verifier, err = security.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("init jwt verifier: %w", err)
		}
	} else {
		logger.Warn("no jwt secret configured, bearer tokens pass through unverified")
	}

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler, httpadapter.RouterConfig{
		Verifier:      verifier,
		WebhookSecret: cfg.WebhookSecret,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	outbox := eventadapter.NewOutboxWorker(
		logger,
		outboxRepo,
		publisher,
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
	)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outbox,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	go func() {
		if err := r.outbox.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("outbox worker stopped", "error", err)
		}
	}()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
