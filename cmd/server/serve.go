package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"arogyakrishi/internal/cache"
	"arogyakrishi/internal/config"
	"arogyakrishi/internal/database"
	"arogyakrishi/internal/handler"
	"arogyakrishi/internal/inference"
	"arogyakrishi/internal/llm"
	"arogyakrishi/internal/localization"
	"arogyakrishi/internal/logging"
	"arogyakrishi/internal/metrics"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/overpass"
	"arogyakrishi/internal/push"
	"arogyakrishi/internal/queue"
	"arogyakrishi/internal/redis"
	"arogyakrishi/internal/repository"
	"arogyakrishi/internal/service"
	"arogyakrishi/internal/session"
	"arogyakrishi/internal/storage"
	transport "arogyakrishi/internal/transport/http"
	"arogyakrishi/internal/worker"
)

const alertQueueRedis = "redis"

func serveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), cfg, logger)
		},
	}
}

// serve builds every dependency from cfg and runs until ctx is canceled.
// Backends that are not configured disable their feature.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	startedAt := time.Now()
	logger.Info("starting", zap.String("service", handler.ServiceName), zap.String("version", handler.Version), zap.String("env", cfg.AppEnv))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	catalog, err := localization.Load()
	if err != nil {
		return err
	}

	// Persistence
	var (
		db         *sqlx.DB
		detections repository.DetectionRepository
		users      repository.DeviceUserRepository
		sentAlerts repository.SentAlertRepository
	)
	if cfg.DatabaseConfigured() {
		db, err = database.Connect(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		detections = repository.NewDetectionRepository(db)
		users = repository.NewDeviceUserRepository(db)
		sentAlerts = repository.NewSentAlertRepository(db)
	} else {
		logger.Warn("no database configured, detections and devices will not be stored")
	}

	var rc *redis.Client
	if cfg.RedisURL != "" {
		rc, err = redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		logger.Info("connected to redis")
	}

	// Chat
	sessionOpts := []session.StoreOption{
		session.WithMaxTurns(cfg.SessionMaxTurns),
		session.WithTTL(cfg.SessionTTL),
	}
	if rc != nil {
		sessionOpts = append(sessionOpts, session.WithRedisClient(rc.Client))
	}
	sessions, err := session.NewStore(session.StoreType(cfg.SessionDriver), sessionOpts...)
	if err != nil {
		return fmt.Errorf("session store %q: %w", cfg.SessionDriver, err)
	}

	status := model.ChatStatus{
		ChatModel: cfg.OpenAIChatModel,
		STTModel:  cfg.OpenAISTTModel,
		TTSModel:  cfg.OpenAITTSModel,
		TTSVoice:  cfg.OpenAITTSVoice,
	}
	var assistant llm.Assistant = llm.CannedAssistant{}
	if cfg.OpenAIEnabled() {
		assistant = llm.NewOpenAIAssistant(llm.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			ChatModel: cfg.OpenAIChatModel,
			STTModel:  cfg.OpenAISTTModel,
			TTSModel:  cfg.OpenAITTSModel,
			TTSVoice:  cfg.OpenAITTSVoice,
		}, logger.Named("llm"))
	} else {
		logger.Info("OPENAI_API_KEY not set, chat uses canned replies")
	}
	chatService := service.NewChatService(sessions, session.NewAudioStore(cfg.AudioTTL), assistant, status, m, logger.Named("chat"))

	// Alerts
	var (
		dispatcher service.AlertDispatcher
		manager    *worker.Manager
	)
	if users != nil {
		sender, err := push.New(ctx, cfg.PushProvider, push.FCMCredentials{
			ProjectID:   cfg.FCMProjectID,
			ClientEmail: cfg.FCMClientEmail,
			PrivateKey:  cfg.FCMPrivateKey,
		}, logger.Named("push"))
		if err != nil {
			return err
		}

		notifier := service.NewAlertNotifier(users, service.NewDeduplicator(sentAlerts), sender,
			service.AlertNotifierConfig{RadiusKM: cfg.AlertRadiusKM, Cooldown: cfg.AlertCooldown},
			m, logger.Named("alerts"))

		switch {
		case cfg.AlertQueue == alertQueueRedis && rc != nil:
			dispatcher = service.NewQueueDispatcher(queue.NewPublisher(rc.Client, logger.Named("queue")))
			wcfg := worker.DefaultManagerConfig()
			if cfg.AlertWorkers > 0 {
				wcfg.WorkerCount = cfg.AlertWorkers
			}
			manager = worker.NewManager(queue.NewConsumer(rc.Client, logger.Named("queue")),
				worker.NewHandler(notifier, logger.Named("worker")), wcfg, logger.Named("worker"))
		case cfg.AlertQueue == alertQueueRedis:
			logger.Warn("ALERT_QUEUE=redis needs REDIS_URL, sending alerts inline")
			fallthrough
		default:
			dispatcher = service.NewInlineDispatcher(notifier, logger.Named("alerts"))
		}
	}

	// Detection
	var predictor inference.Predictor = inference.NewMockPredictor()
	if !cfg.UseMockInference && cfg.InferenceURL != "" {
		predictor = inference.NewRemotePredictor(cfg.InferenceURL, cfg.InferenceTimeout)
		logger.Info("using remote inference", zap.String("url", cfg.InferenceURL))
	} else {
		logger.Info("using mock inference")
	}

	var archiver storage.Archiver
	if cfg.StorageConfigured() {
		s3, err := storage.NewS3Archive(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			return err
		}
		archiver = s3
	}

	maxImage := cfg.MaxImageSizeBytes()
	detectionService := service.NewDetectionService(predictor, catalog, detections, archiver, dispatcher,
		service.DetectionConfig{MaxImageSize: maxImage, ConfidenceThreshold: cfg.ConfidenceThreshold},
		m, logger.Named("detection"))

	// Treatment
	var storeCache overpass.ResultCache = cache.NewStoreCache(cfg.StoreCacheTTL)
	if rc != nil {
		storeCache = cache.NewRedisStoreCache(rc.Client, cfg.StoreCacheTTL, logger.Named("cache"))
	}
	locator := overpass.NewLocator(
		overpass.NewChainFromURLs(logger.Named("overpass"), cfg.OverpassURLs, cfg.OverpassTimeout),
		storeCache,
	)
	treatmentService := service.NewTreatmentService(catalog, locator, service.TreatmentConfig{
		MaxImageSize:    maxImage,
		StoreRadiusM:    cfg.StoreRadiusM,
		StoreMaxResults: cfg.StoreMaxResults,
	}, m, logger.Named("treatment"))

	router := transport.NewRouter(transport.RouterConfig{
		SystemHandler:    handler.NewSystemHandler(startedAt),
		DetectionHandler: handler.NewDetectionHandler(detectionService, maxImage, logger.Named("http")),
		TreatmentHandler: handler.NewTreatmentHandler(treatmentService, maxImage, logger.Named("http")),
		DeviceHandler:    handler.NewDeviceHandler(service.NewDeviceService(users), logger.Named("http")),
		ChatHandler:      handler.NewChatHandler(chatService, logger.Named("http")),
		AllowedOrigins:   cfg.AllowedOrigins,
		Metrics:          m,
		Logger:           logger.Named("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	if manager != nil {
		if err := manager.Start(gctx); err != nil {
			return fmt.Errorf("start alert workers: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			manager.Stop()
			return nil
		})
	}
	g.Go(func() error {
		return transport.NewServer(cfg.ServerPort, router, logger).Run(gctx)
	})

	err = g.Wait()
	logger.Info("stopped")
	return err
}
