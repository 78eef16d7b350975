package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightcare/booking-platform/internal/api/router"
	"github.com/brightcare/booking-platform/internal/appointments"
	"github.com/brightcare/booking-platform/internal/booking"
	"github.com/brightcare/booking-platform/internal/cancellation"
	appconfig "github.com/brightcare/booking-platform/internal/config"
	"github.com/brightcare/booking-platform/internal/notify"
	"github.com/brightcare/booking-platform/internal/observability/metrics"
	"github.com/brightcare/booking-platform/internal/payments"
	"github.com/brightcare/booking-platform/internal/slots"
	"github.com/brightcare/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	slotStore, apptStore := buildStores(ctx, cfg, logger)
	if client := buildRedisClient(ctx, cfg, logger); client != nil {
		slotStore = slots.NewCachedStore(slotStore, client, cfg.SlotCacheTTL, logger)
	}

	policies := payments.NewPolicyEngine(nil)
	processor := payments.NewSimulatedProcessor(logger)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	notifier := buildNotifier(ctx, cfg, logger)

	orchestrator := booking.NewOrchestrator(slotStore, apptStore, policies, processor, notifier, bookingMetrics, logger)
	engine := cancellation.NewEngine(apptStore, slotStore, policies, notifier, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		BookingHandler:      booking.NewHandler(orchestrator, logger),
		CancellationHandler: cancellation.NewHandler(engine, logger),
		SlotsHandler:        slots.NewHandler(slotStore, logger),
		PolicyHandler:       payments.NewPolicyHandler(policies),
		MetricsHandler:      promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStores returns Postgres-backed stores when DATABASE_URL is set,
// falling back to in-memory stores for local development.
func buildStores(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (slots.Store, appointments.Store) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		slotStore := slots.NewMemoryStore()
		if cfg.Env == "development" {
			seedDevSlots(ctx, slotStore, logger)
		}
		return slotStore, appointments.NewMemoryStore()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}
	return slots.NewPostgresStore(pool), appointments.NewPostgresStore(pool)
}

// seedDevSlots loads a handful of open slots so the API is usable
// out of the box without a database.
func seedDevSlots(ctx context.Context, store *slots.MemoryStore, logger *logging.Logger) {
	start := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	for i := 0; i < 8; i++ {
		slot := &slots.Slot{
			ID:        fmt.Sprintf("slot-%d", i+1),
			ClinicID:  "clinic-1",
			StartTime: start.Add(time.Duration(i) * time.Hour),
			EndTime:   start.Add(time.Duration(i+1) * time.Hour),
		}
		if err := store.Create(ctx, slot); err != nil {
			logger.Warn("failed to seed slot", "slot_id", slot.ID, "error", err)
		}
	}
	logger.Info("seeded development slots", "clinic_id", "clinic-1", "count", 8)
}

// buildRedisClient returns a configured Redis client or nil when disabled.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, slot cache disabled", "error", err)
		return nil
	}
	return client
}

// buildNotifier wires the configured email provider, or nil when disabled.
func buildNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *notify.Service {
	if len(cfg.NotifyRecipients) == 0 {
		return nil
	}

	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger); s != nil {
			sender = s
		}
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("failed to load AWS config, SES notifications disabled", "error", err)
			break
		}
		client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
			if cfg.AWSEndpointOverride != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
			}
		})
		if s := notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger); s != nil {
			sender = s
		}
	}
	if sender == nil {
		return nil
	}
	return notify.NewService(sender, cfg.NotifyRecipients, logger)
}
