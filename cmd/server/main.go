package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "stockresearch/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"stockresearch/internal/auth"
	"stockresearch/internal/cache"
	"stockresearch/internal/config"
	"stockresearch/internal/db"
	"stockresearch/internal/handler"
	"stockresearch/internal/logging"
	"stockresearch/internal/repository"
	"stockresearch/internal/research"
	"stockresearch/internal/router"
	"stockresearch/internal/service"
)

// @title Stock Research API
// @version 1.0
// @description One-time code login and deterministic per-ticker research cards.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logging.New(logging.Config{
		Level:    cfg.LogLevel,
		Console:  os.Stdout,
		FilePath: cfg.LogFile,
	})

	startedAt := time.Now()

	// Challenges and sessions live in Redis when configured, else in memory.
	var store cache.Store
	if cfg.RedisAddr != "" {
		redisClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis init")
		}
		store = redisClient
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis store")
	} else {
		store = cache.NewMemory()
		log.Info().Msg("using in-memory store")
	}

	// The ticker catalog comes from MySQL when configured, else the built-in table.
	var catalog research.Catalog
	if cfg.MySQLDSN != "" {
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database init")
		}
		catalog = repository.NewTickerRepository(gormDB)
		log.Info().Msg("using mysql ticker catalog")
	} else {
		catalog = research.NewStaticCatalog(nil)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SessionSecret)
	challengeStore := auth.NewChallengeStore(store)
	sessionStore := auth.NewSessionStore(store)
	sender := auth.NewLogSender(log)

	// Initialize services
	authService := service.NewAuthService(
		challengeStore,
		sessionStore,
		jwtService,
		sender,
		service.WithChallengeTTL(cfg.OTPTTL),
		service.WithSessionTTL(cfg.SessionTTL),
	)
	researchService := service.NewResearchService(catalog, research.NewEngine(catalog), startedAt)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		Secure: cfg.SessionCookieSecure,
		MaxAge: cfg.SessionTTL,
	}, log)
	researchHandler := handler.NewResearchHandler(researchService)

	e := echo.New()
	e.HidePort = true
	router.Register(e, log, authService, authHandler, researchHandler)

	log.Info().Str("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)).Msg("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}

// swaggerURL builds the docs URL; host may already carry a scheme.
func swaggerURL(host, port string) string {
	if host == "" {
		host = "localhost:" + port
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
