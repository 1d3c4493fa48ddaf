package hospital

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// userIDDigits is the minimum width of the numeric part of a user ID.
const userIDDigits = 4

// ParseRole validates a role coming from outside the system.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, err := role.Prefix(); err != nil {
		return "", err
	}
	return role, nil
}

// Prefix returns the three-letter ID prefix for the role.
func (r Role) Prefix() (string, error) {
	switch r {
	case RoleAdmin:
		return "ADM", nil
	case RoleDoctor:
		return "DOC", nil
	case RoleReceptionist:
		return "REC", nil
	case RolePatient:
		return "PAT", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
}

// FormatUserID renders prefix and sequence number as e.g. ADM0001.
func FormatUserID(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, userIDDigits, n)
}

// ParseUserIDSuffix extracts the numeric part of id for the given prefix.
func ParseUserIDSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IDGenerator allocates user IDs. IDs within one role are strictly increasing
// and never reused while a record with that ID exists.
type IDGenerator interface {
	NextUserID(ctx context.Context, role Role) (string, error)
}

// UserIDLister lists the user IDs that start with prefix.
type UserIDLister interface {
	ListUserIDs(ctx context.Context, prefix string) ([]string, error)
}

// CounterIDGenerator keeps one monotonic counter per role in memory. The
// counter advances on every call, whether or not the ID ends up stored.
type CounterIDGenerator struct {
	mu       sync.Mutex
	counters map[Role]int
}

func NewCounterIDGenerator() *CounterIDGenerator {
	return &CounterIDGenerator{counters: make(map[Role]int)}
}

func (g *CounterIDGenerator) NextUserID(ctx context.Context, role Role) (string, error) {
	prefix, err := role.Prefix()
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.counters[role]++
	return FormatUserID(prefix, g.counters[role]), nil
}

// ScanIDGenerator computes max+1 over the IDs already stored, so IDs survive a
// restart and skip over rows inserted out of band. Two callers racing for the
// same role can compute the same ID; the store's primary key rejects the loser.
type ScanIDGenerator struct {
	lister UserIDLister
}

func NewScanIDGenerator(lister UserIDLister) *ScanIDGenerator {
	return &ScanIDGenerator{lister: lister}
}

func (g *ScanIDGenerator) NextUserID(ctx context.Context, role Role) (string, error) {
	prefix, err := role.Prefix()
	if err != nil {
		return "", err
	}

	highest, err := MaxUserIDSuffix(ctx, g.lister, prefix)
	if err != nil {
		return "", err
	}

	return FormatUserID(prefix, highest+1), nil
}

// MaxUserIDSuffix returns the highest numeric suffix among the stored IDs with
// prefix, or 0 when there are none.
func MaxUserIDSuffix(ctx context.Context, lister UserIDLister, prefix string) (int, error) {
	ids, err := lister.ListUserIDs(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list user ids: %w", err)
	}

	highest := 0
	for _, id := range ids {
		if n, ok := ParseUserIDSuffix(id, prefix); ok && n > highest {
			highest = n
		}
	}
	return highest, nil
}
