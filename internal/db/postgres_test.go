package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
)

func TestSchemaDDL_QuotesSchema(t *testing.T) {
	ddl := SchemaDDL("hospital_test")

	if strings.Contains(ddl, "{{schema}}") {
		t.Fatal("Expected every schema placeholder to be replaced")
	}
	for _, table := range []string{"users", "doctors", "patients", "appointments", "specializations"} {
		if !strings.Contains(ddl, `"hospital_test".`+table) {
			t.Errorf("Expected DDL for table %s", table)
		}
	}
	if !strings.Contains(ddl, "email      TEXT NOT NULL UNIQUE") {
		t.Error("Expected users.email to be unique")
	}
}

func TestConnect_MissingConfig(t *testing.T) {
	_, err := Connect(context.Background(), config.DBConfig{Host: "localhost"})
	if !errors.Is(err, config.ErrMissingDBConfig) {
		t.Errorf("Expected ErrMissingDBConfig, got %v", err)
	}
}
