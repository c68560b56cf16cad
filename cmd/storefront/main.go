package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cache"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/config"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/gateway"
	h "github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/http"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)

	ctx := context.Background()
	sessionCache, closeCache := newSessionCache(ctx, cfg)
	defer closeCache()

	provider := identity.NewProvider(identity.Config{
		Issuer:         identity.KeycloakIssuer(cfg.OIDCURL, cfg.OIDCRealm),
		ClientID:       cfg.OIDCClientID,
		RedirectURL:    cfg.OIDCRedirectURL,
		AdminUsernames: cfg.AdminUsernames,
	})
	sessions := session.NewManager(sessionCache, provider)

	remote := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.RequestTimeout,
	}
	backends := h.GatewayBackends(gateway.Endpoints{
		Catalog:  cfg.CatalogServiceURL,
		Orders:   cfg.OrderServiceURL,
		Payments: cfg.PaymentServiceURL,
	}, gateway.WithHTTPClient(remote))

	handler := h.NewHandler(sessions, backends, provider, h.Options{
		AppURL:         cfg.AppURL,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		SessionTTL:     cfg.SessionTTL,
		CookieSecure:   cfg.CookieSecure,
		TaxRate:        cfg.TaxRate,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("catalog", cfg.CatalogServiceURL).
			Str("orders", cfg.OrderServiceURL).
			Str("payments", cfg.PaymentServiceURL).
			Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// newSessionCache uses Redis when REDIS_ADDR is set and an in-process LRU
// otherwise. The LRU loses sessions on restart and is not shared between
// replicas.
func newSessionCache(ctx context.Context, cfg *config.Config) (cache.SessionCache, func()) {
	if cfg.RedisAddr == "" {
		log.Warn().Int("size", cfg.SessionCacheSize).Msg("REDIS_ADDR not set, sessions kept in memory")
		return cache.NewMemoryCache(cfg.SessionCacheSize, cfg.SessionTTL), func() {}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connection failed")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis ping succeeded")

	return cache.NewRedisCache(redisClient, cfg.SessionTTL), func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}
}
