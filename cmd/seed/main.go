package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"materihub/internal/auth"
	"materihub/internal/config"
	"materihub/internal/domain"
	"materihub/internal/domain/models"
	"materihub/internal/domain/services"
	"materihub/internal/repository/postgres"
	"materihub/internal/service"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before creating the schema (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't create the demo user")
	demoUsername := flag.String("demo-username", "demo_user", "Username of the demo account")
	demoPassword := flag.String("demo-password", "demo123", "Password of the demo account")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: Cannot run --drop-tables in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is not set")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.RunSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	materiRepo := postgres.NewMateriRepository(repoConfig)

	tokens, err := auth.NewHMACTokens(cfg.JWTSecret, cfg.JWTTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	userService, err := service.NewUserService(userRepo, materiRepo, auth.NewBcryptManager(0), tokens, logger)
	if err != nil {
		log.Fatalf("Failed to create user service: %v", err)
	}

	// Use the service layer so validation and hashing match real signups
	user, err := userService.Signup(ctx, &services.SignupRequest{
		Name:     "Demo User",
		Username: *demoUsername,
		Password: *demoPassword,
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		user, err = userRepo.GetByUsername(ctx, *demoUsername)
		if err != nil {
			log.Fatalf("Failed to load existing demo user: %v", err)
		}
		log.Printf("Demo user %s already exists (ID: %s)", user.Username, user.ID)
	case err != nil:
		log.Fatalf("Failed to create demo user: %v", err)
	default:
		log.Printf("Created demo user %s (ID: %s)", user.Username, user.ID)
	}

	count, err := materiRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to count demo materi: %v", err)
	}
	if count > 0 {
		log.Println("Demo materi already present")
		return
	}

	now := time.Now()
	materi := &models.Materi{
		Title:       "Selamat datang di MateriHub",
		Description: "Contoh materi berupa tautan.",
		ContentURL:  "https://drive.google.com/",
		ContentType: models.ContentTypeLink,
		AuthorID:    user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := materiRepo.Create(ctx, materi); err != nil {
		log.Fatalf("Failed to create demo materi: %v", err)
	}
	log.Printf("Created demo materi %q (ID: %s)", materi.Title, materi.ID)
	log.Println("Seeding complete!")
}
