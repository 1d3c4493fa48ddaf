package main

import (
	"context"
	"log"
	"time"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/db"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/hospital"
)

// Creates the hospital schema in PostgreSQL and loads the default records into
// an empty store. Safe to run repeatedly.
func main() {
	log.Println("Hospital Seed Job - Starting")

	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.StoreBackend != config.BackendPostgres {
		log.Fatalf("Seed job needs STORE_BACKEND=%s, got %q", config.BackendPostgres, cfg.StoreBackend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database, cfg.DB.Schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	seed, err := hospital.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to load seed: %v", err)
	}

	repo := hospital.NewRepository(database, cfg.DB.Schema)
	wrote, err := hospital.InitializeDefaults(ctx, repo, seed)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if !wrote {
		log.Println("Nothing to do. Exiting.")
		return
	}

	log.Println("Seed Job - Finished")
}
