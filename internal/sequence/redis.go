package sequence

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/hospital"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces the per-role counters in Redis
const KeyPrefix = "hospital:user_id_seq:"

// Key returns the Redis key holding the counter for an ID prefix
func Key(prefix string) string {
	return KeyPrefix + prefix
}

// NewClient creates a Redis client and checks the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	log.Printf("✓ Connected to Redis at %s", cfg.Addr)
	return client, nil
}

// RedisGenerator allocates user IDs with INCR, so concurrent callers (and
// several service instances) never receive the same ID. Each counter is seeded
// once from the highest ID already in the store.
type RedisGenerator struct {
	client redis.Cmdable
	lister hospital.UserIDLister

	mu     sync.Mutex
	seeded map[string]bool
}

var _ hospital.IDGenerator = (*RedisGenerator)(nil)

func NewRedisGenerator(client redis.Cmdable, lister hospital.UserIDLister) *RedisGenerator {
	return &RedisGenerator{
		client: client,
		lister: lister,
		seeded: make(map[string]bool),
	}
}

func (g *RedisGenerator) NextUserID(ctx context.Context, role hospital.Role) (string, error) {
	prefix, err := role.Prefix()
	if err != nil {
		return "", err
	}

	if err := g.seed(ctx, prefix); err != nil {
		return "", err
	}

	n, err := g.client.Incr(ctx, Key(prefix)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment user id sequence %s: %w", prefix, err)
	}

	return hospital.FormatUserID(prefix, int(n)), nil
}

// seed sets the counter to the stored maximum unless the key already exists
func (g *RedisGenerator) seed(ctx context.Context, prefix string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seeded[prefix] {
		return nil
	}

	highest, err := hospital.MaxUserIDSuffix(ctx, g.lister, prefix)
	if err != nil {
		return err
	}

	set, err := g.client.SetNX(ctx, Key(prefix), highest, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to seed user id sequence %s: %w", prefix, err)
	}
	if set {
		log.Printf("Seeded user id sequence %s at %d", prefix, highest)
	}

	g.seeded[prefix] = true
	return nil
}
