package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/pet-adoption-go/auth"
	"github.com/phillip/pet-adoption-go/config"
	"github.com/phillip/pet-adoption-go/controllers"
	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/observability"
	"github.com/phillip/pet-adoption-go/payments"
	"github.com/phillip/pet-adoption-go/routes"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/store/memory"
	"github.com/phillip/pet-adoption-go/utils"
)

var version = "dev"

func main() {
	cfg := config.MustLoad()
	setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	stores, client := openStores(ctx, cfg)

	for _, email := range cfg.Auth.AdminEmails {
		bctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		if err := stores.Users.EnsureRole(bctx, email, models.RoleAdmin); err != nil {
			log.Error().Err(err).Str("email", email).Msg("admin bootstrap failed")
		}
		cancel()
	}

	tokens := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	env := &controllers.Env{
		Stores: stores,
		Tokens: tokens,
		Cookie: auth.CookiePolicy{
			Name:       cfg.Auth.CookieName,
			Production: cfg.Production(),
			MaxAge:     int(tokens.TTL().Seconds()),
		},
		Bridge:  payments.NewBridge(payments.NewStripeProcessor(cfg.Payments.StripeSecretKey), stores.Payments, cfg.Payments.Currency),
		Timeout: cfg.RequestTimeout,
	}
	if cfg.Payments.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	if cfg.Cloudinary.Enabled() {
		images, err := utils.NewCloudinaryImages(cfg.Cloudinary)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary setup failed")
		}
		env.Images = images
	} else {
		log.Warn().Msg("cloudinary not configured, uploads disabled")
	}
	if cfg.Mail.Enabled() {
		env.Mailer = utils.NewMailer(cfg.Mail)
	}

	router, err := routes.NewRouter(env, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("storage", cfg.StorageDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if client != nil {
		if err := client.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// openStores returns the configured driver's stores. The client is nil for
// the memory driver.
func openStores(ctx context.Context, cfg *config.Config) (store.Stores, *mongo.Client) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}

	cctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	client, err := store.Connect(cctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	db := client.Database(cfg.DBName)
	if err := store.EnsureIndexes(cctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes failed")
	}
	log.Info().Str("db", cfg.DBName).Msg("connected to MongoDB")
	return store.NewMongoStores(db), client
}
