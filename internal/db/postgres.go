package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
	"github.com/XSAM/otelsql"
	"github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

//go:embed schema.sql
var schemaSQL string

// Connect creates a connection to PostgreSQL with OpenTelemetry instrumentation
func Connect(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	attrs := otelsql.WithAttributes(
		semconv.DBSystemPostgreSQL,
		semconv.DBName(cfg.Name),
	)

	db, err := otelsql.Open("postgres", cfg.DSN(), attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Register database stats for metrics
	if err := otelsql.RegisterDBStatsMetrics(db, attrs); err != nil {
		log.Printf("Warning: failed to register database stats metrics: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Printf("✓ Connected to PostgreSQL database %s (OpenTelemetry enabled)", cfg.Name)
	return db, nil
}

// SchemaDDL renders the table definitions for the given schema name
func SchemaDDL(schemaName string) string {
	return strings.ReplaceAll(schemaSQL, "{{schema}}", pq.QuoteIdentifier(schemaName))
}

// EnsureSchema creates the schema and its five tables when they do not exist yet
func EnsureSchema(ctx context.Context, db *sql.DB, schemaName string) error {
	if _, err := db.ExecContext(ctx, SchemaDDL(schemaName)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}
	log.Printf("✓ Schema %s ready", schemaName)
	return nil
}
