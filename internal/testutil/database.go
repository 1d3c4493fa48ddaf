package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/db"
	"github.com/lib/pq"
)

// TestSchema is the schema integration tests create their tables in
const TestSchema = "hospital_test"

// TestDBConfig returns the connection settings for the test database.
// TEST_DB_* variables override the local defaults.
func TestDBConfig() config.DBConfig {
	return config.DBConfig{
		Host:     config.GetEnv("TEST_DB_HOST", "localhost"),
		Port:     config.GetEnv("TEST_DB_PORT", "5432"),
		User:     config.GetEnv("TEST_DB_USER", "postgres"),
		Password: config.GetEnv("TEST_DB_PASSWORD", "postgres"),
		Name:     config.GetEnv("TEST_DB_NAME", "hospital_test"),
		Schema:   TestSchema,
	}
}

// SetupTestDB connects to the test database, creates the hospital tables in
// TestSchema and empties them. The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	cfg := TestDBConfig()

	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if err := db.EnsureSchema(ctx, conn, cfg.Schema); err != nil {
		conn.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	CleanupTestDB(t, conn)
	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}

// CleanupTestDB empties every hospital table and resets the serial counters
func CleanupTestDB(t *testing.T, conn *sql.DB) {
	t.Helper()

	schema := pq.QuoteIdentifier(TestSchema)
	query := fmt.Sprintf(
		"TRUNCATE TABLE %[1]s.appointments, %[1]s.patients, %[1]s.doctors, %[1]s.users, %[1]s.specializations RESTART IDENTITY CASCADE",
		schema,
	)
	if _, err := conn.Exec(query); err != nil {
		t.Fatalf("Failed to clean up test tables: %v", err)
	}
}
