//go:build integration

package e2e

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/hospital"
	httpserver "github.com/WailSalutem-Health-Care/hospital-service/internal/http"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/testutil"
)

// TestServer is a complete service backed by the test database
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	Repo          *hospital.Repository
	MockPublisher *testutil.MockPublisher
}

// SetupE2ETest starts the full router on a real PostgreSQL store loaded with
// the default seed. Events go to an in-memory publisher.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := hospital.NewRepository(db, testutil.TestSchema)

	if _, err := hospital.InitializeDefaults(context.Background(), repo, hospital.DefaultSeed()); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	mockPublisher := testutil.NewMockPublisher()
	service := hospital.NewService(repo, mockPublisher, nil)
	router := httpserver.SetupRouter(hospital.NewHandler(service), nil, "hospital-service-e2e")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:        server,
		DB:            db,
		Repo:          repo,
		MockPublisher: mockPublisher,
	}
}

// NewClient creates an HTTP test client for this server
func (ts *TestServer) NewClient() *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL)
}

// CountRows returns the number of rows in a table of the test schema
func (ts *TestServer) CountRows(t *testing.T, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + testutil.TestSchema + "." + table
	if err := ts.DB.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return count
}
