package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"playcall/adapters/postgres"
	"playcall/internal"
	"playcall/internal/config"
	"playcall/internal/training"
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

	trainer := training.NewTrainer(cfg, postgres.NewPlaysRepository(db), internal.DefaultLogger)
	if err := trainer.Run(context.Background()); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	log.Println("Training complete")
}
