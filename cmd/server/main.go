package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"materihub/internal/auth"
	"materihub/internal/config"
	"materihub/internal/handler"
	"materihub/internal/middleware"
	"materihub/internal/repository/postgres"
	"materihub/internal/service"
	serviceAuth "materihub/internal/service/auth"
	"materihub/internal/service/drivetree"
	"materihub/internal/service/drivetree/gdrive"
	"materihub/internal/telemetry"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  "materihub",
		Environment:  cfg.Environment,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Tracing.OTLPInsecure,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	// Session tokens: issued locally, optionally also accepted from an external IdP
	tokens, err := auth.NewHMACTokens(cfg.JWTSecret, cfg.JWTTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	var verifier auth.TokenVerifier = tokens
	if cfg.AuthJWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifier = auth.NewChainVerifier(tokens, jwks)
	}
	defer verifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()
	prometheus.MustRegister(postgres.NewPoolCollector(pool))

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	materiRepo := postgres.NewMateriRepository(repoConfig)
	txManager := postgres.NewTransactionManager(repoConfig)

	// Google Drive ingestion
	kinds, err := drivetree.NewKindRegistry()
	if err != nil {
		log.Fatalf("Failed to load kind table: %v", err)
	}
	driveClient, err := gdrive.NewClient(ctx, cfg.Drive, kinds, logger)
	if err != nil {
		log.Fatalf("Failed to create Google Drive client: %v", err)
	}
	ingestor := drivetree.NewIngestor(driveClient, drivetree.Options{
		MaxDepth:    cfg.Drive.MaxDepth,
		Concurrency: cfg.Drive.Concurrency,
	}, logger)
	codec := drivetree.NewCodec(kinds, logger)

	// Create services
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(materiRepo)
	materiService := service.NewMateriService(materiRepo, txManager, authorizer, ingestor, codec, kinds, logger)
	userService, err := service.NewUserService(userRepo, materiRepo, auth.NewBcryptManager(0), tokens, logger)
	if err != nil {
		log.Fatalf("Failed to create user service: %v", err)
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Health: handler.NewHealthHandler(pool, logger),
		Auth: handler.NewAuthHandler(userService, handler.CookieOptions{
			TTL:    cfg.JWTTTL,
			Secure: cfg.Environment == "prod",
		}, logger),
		User:   handler.NewUserHandler(userService, logger),
		Materi: handler.NewMateriHandler(materiService, logger),
		Drive:  handler.NewDriveHandler(materiService, logger),
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Tracing → Logging → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(verifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = otelhttp.NewHandler(h, "materihub")

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Folder ingestion walks whole Drive hierarchies, so writes get a generous timeout
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
