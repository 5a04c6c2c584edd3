package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"playcall/adapters/postgres"
	"playcall/internal"
	"playcall/internal/api"
	"playcall/internal/config"
	"playcall/internal/executor"
	"playcall/internal/router"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := internal.DefaultLogger
	repo := postgres.NewPlaysRepository(db)
	registry := executor.NewRegistry(cfg, repo, logger)
	exec := executor.New(cfg, registry, repo, logger)

	server := api.NewServer(cfg, router.New(), exec, logger)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
