package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/db"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/hospital"
	httpserver "github.com/WailSalutem-Health-Care/hospital-service/internal/http"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/sequence"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// idConfigurable is implemented by both stores
type idConfigurable interface {
	hospital.RepositoryInterface
	UseIDGenerator(g hospital.IDGenerator)
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	provider, err := telemetry.InitProvider(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: telemetry shutdown: %v", err)
		}
	}()

	var (
		serviceMetrics hospital.MetricsRecorder
		httpMetrics    httpserver.HTTPMetricsRecorder
	)
	if metrics, err := telemetry.InitMetrics(); err != nil {
		log.Printf("Warning: metrics disabled: %v", err)
	} else {
		serviceMetrics = metrics
		httpMetrics = metrics
	}

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	var publisher messaging.PublisherInterface
	if cfg.RabbitMQURL == "" {
		log.Println("RABBITMQ_URL not set, events will not be published")
	} else if p, err := messaging.NewPublisher(cfg.RabbitMQURL); err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events will not be published: %v", err)
	} else {
		publisher = p
		defer p.Close()
	}

	if cfg.SeedOnStart {
		seed, err := hospital.LoadSeed(cfg.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load seed: %v", err)
		}
		if _, err := hospital.InitializeDefaults(ctx, repo, seed); err != nil {
			log.Fatalf("Failed to initialize default data: %v", err)
		}
	}

	service := hospital.NewService(repo, publisher, serviceMetrics)
	handler := hospital.NewHandler(service)
	router := httpserver.SetupRouter(handler, httpMetrics, cfg.Telemetry.ServiceName)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.CORSMiddleware(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("✓ %s listening on :%s (store: %s, ids: %s)", cfg.Telemetry.ServiceName, cfg.Port, cfg.StoreBackend, cfg.IDStrategy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

// openStore builds the configured repository and returns a func releasing
// its connections.
func openStore(ctx context.Context, cfg config.Config) (hospital.RepositoryInterface, func(), error) {
	var (
		repo     idConfigurable
		database *sql.DB
	)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		conn, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx, conn, cfg.DB.Schema); err != nil {
			conn.Close()
			return nil, nil, err
		}
		database = conn
		repo = hospital.NewRepository(conn, cfg.DB.Schema)
	default:
		log.Println("Using in-memory store, data is lost on restart")
		repo = hospital.NewMemoryRepository()
	}

	var redisClient *redis.Client
	switch cfg.IDStrategy {
	case config.IDStrategyCounter:
		repo.UseIDGenerator(hospital.NewCounterIDGenerator())
	case config.IDStrategyScan:
		repo.UseIDGenerator(hospital.NewScanIDGenerator(repo))
	case config.IDStrategyRedis:
		client, err := sequence.NewClient(ctx, cfg.Redis)
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, nil, err
		}
		redisClient = client
		repo.UseIDGenerator(sequence.NewRedisGenerator(client, repo))
	}

	closeFn := func() {
		if redisClient != nil {
			redisClient.Close()
		}
		if database != nil {
			database.Close()
		}
	}
	return repo, closeFn, nil
}
