package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/cache"
	"github.com/anonto42/eventpulse/backend/internal/chat"
	"github.com/anonto42/eventpulse/backend/internal/handlers"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/internal/repositories/memory"
	"github.com/anonto42/eventpulse/backend/internal/router"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/anonto42/eventpulse/backend/internal/validators"
	"github.com/anonto42/eventpulse/backend/pkg/config"
	"github.com/anonto42/eventpulse/backend/pkg/firebase"
	"github.com/anonto42/eventpulse/backend/pkg/mailer"
	"github.com/anonto42/eventpulse/backend/pkg/payment"
	"github.com/anonto42/eventpulse/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores := openStores(ctx, cfg)
	defer closeStores()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	mail := newMailer(cfg)

	var google services.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logging.Warn().Err(err).Msg("Google sign-in disabled")
		} else {
			google = app
		}
	}

	var statsCache cache.StatsCache = cache.NopStatsCache{}
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logging.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("stats cache disabled")
		} else {
			defer client.Close()
			statsCache = cache.NewRedisStatsCache(client, 30*time.Second)
		}
	}

	var uploader handlers.PictureUploader
	if cfg.MinioEndpoint != "" {
		u, err := storage.NewUploader(ctx, storage.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logging.Warn().Err(err).Msg("picture uploads disabled")
		} else {
			uploader = u
		}
	}

	var checkout handlers.CheckoutCreator
	if cfg.StripeSecretKey != "" {
		checkout = payment.NewCheckout(cfg.StripeSecretKey, cfg.ClientURL)
	}

	gate := services.NewDedupGate(stores.Notifications, stores.Transactions)
	authService := services.NewAuthService(stores.Users, tokens, google, mail, cfg.ClientURL)
	eventService := services.NewEventService(stores, gate, mail)

	hub := chat.NewHub(stores.Messages)
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		_ = hub.Run(hubCtx)
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, router.Options{
		Stores:          stores,
		Auth:            authService,
		Events:          eventService,
		Users:           services.NewUserService(stores),
		Recommendations: services.NewRecommendationService(stores),
		Admin:           services.NewAdminService(stores, statsCache),
		Tokens:          tokens,
		Hub:             hub,
		Uploader:        uploader,
		Checkout:        checkout,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	metricsServer := metrics.NewServer(":" + cfg.MetricsPort)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("metrics server failed")
		}
	}()

	go func() {
		logging.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("metrics server shutdown failed")
	}

	stopHub()
	<-hubDone
	eventService.Wait()
	authService.Wait()
}

// openStores returns the configured repositories and a cleanup func
func openStores(ctx context.Context, cfg *config.Config) (*repositories.Stores, func()) {
	if cfg.StorageDriver == "memory" {
		logging.Warn().Msg("using in-memory storage; data is lost on exit")
		return memory.NewStores(), func() {}
	}

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	if err := repositories.EnsureIndexes(ctx, db.MongoDB); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
	}
	if err := repositories.Migrate(db.Postgres); err != nil {
		logging.Fatal().Err(err).Msg("Failed to auto migrate models")
	}
	return repositories.NewStores(db.MongoDB, db.Postgres), db.CloseDB
}

func newMailer(cfg *config.Config) services.Mailer {
	if cfg.SMTPHost == "" {
		return mailer.NewLogMailer(logging.Component("mailer"))
	}
	return mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
	}, logging.Component("mailer"))
}
