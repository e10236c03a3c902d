package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	"github.com/GHanamaAhmed/cancer-detection/internal/config"
	dbpkg "github.com/GHanamaAhmed/cancer-detection/internal/db"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/ai"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/geocode"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/payment"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/push"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/realtime"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/reminder"
	infraRepo "github.com/GHanamaAhmed/cancer-detection/internal/infra/repository"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/storage"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/video"
	"github.com/GHanamaAhmed/cancer-detection/internal/logger"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
	"github.com/GHanamaAhmed/cancer-detection/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    zl,
	}

	// ======================================================
	// REDIS: rate limiting + realtime
	// ======================================================
	var publisher notify.Publisher = realtime.NopPublisher{}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()

		redisPublisher := realtime.NewRedisPublisher(rdb)
		publisher = redisPublisher
		deps.Subscriber = redisPublisher
		deps.Limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitPerMin)
	} else {
		zl.Warn("REDIS_ADDR not set: in-memory rate limiting, no realtime events, no reminders")
		deps.Limiter = middleware.NewMemoryLimiter(cfg.RateLimitPerMin)
	}

	// ======================================================
	// PUSH + NOTIFICATIONS + AUDIT
	// ======================================================
	var pusher notify.Pusher
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := push.NewFCMSender(ctx, cfg.FirebaseCredentialsFile, db, zl)
		if err != nil {
			zl.Fatal("firebase", zap.Error(err))
		}
		pusher = fcm
	} else {
		zl.Warn("FIREBASE_CREDENTIALS_FILE not set: push notifications disabled")
	}

	notifier := notify.NewService(publisher, pusher, zl)
	deps.Notifier = notifier

	auditDispatcher := audit.NewDispatcher(audit.New(db), zl)
	defer auditDispatcher.Close()
	deps.Audit = auditDispatcher

	// ======================================================
	// REMINDERS (asynq)
	// ======================================================
	if cfg.RedisAddr != "" {
		queueOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}

		queue := asynq.NewClient(queueOpt)
		defer queue.Close()
		deps.Reminders = reminder.NewScheduler(queue)

		worker := reminder.NewWorker(
			queueOpt,
			reminder.NewHandler(infraRepo.NewAppointmentGormRepository(db), notifier, zl),
		)
		if err := worker.Start(); err != nil {
			zl.Fatal("reminder worker", zap.Error(err))
		}
		defer worker.Shutdown()
	}

	// ======================================================
	// OPTIONAL INTEGRATIONS
	// ======================================================
	if cfg.S3Bucket != "" {
		deps.Store = storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		zl.Warn("S3_BUCKET not set: lesion endpoints disabled")
	}

	if cfg.GeminiAPIKey != "" {
		analyzer, err := ai.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			zl.Fatal("gemini", zap.Error(err))
		}
		defer analyzer.Close()
		deps.Analyzer = analyzer
	} else {
		zl.Warn("GEMINI_API_KEY not set: lesion analysis disabled")
	}

	if cfg.MercadoPagoAccessToken != "" {
		checkout, err := payment.NewMercadoPagoCheckout(cfg.MercadoPagoAccessToken, cfg.PaymentNotificationURL)
		if err != nil {
			zl.Fatal("mercadopago", zap.Error(err))
		}
		deps.Checkout = checkout
	}

	if cfg.StreamAPIKey != "" && cfg.StreamAPISecret != "" {
		deps.Tokens = video.NewStreamTokens(cfg.StreamAPIKey, cfg.StreamAPISecret)
	}

	if cfg.GoogleMapsAPIKey != "" {
		deps.Geocoder = geocode.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
}
