// Package cache provides the read-through cache used by the service.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/flipper/internal/domain/model"
)

// Cache stores computed values by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any)
}

// GetOrCompute returns the cached value for key or computes and stores it.
// A nil cache always computes. Errors are never cached.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, compute func() (T, error)) (T, error) {
	if c == nil {
		return compute()
	}
	if v, ok := c.Get(ctx, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v)
	return v, nil
}

// Noop never stores anything.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) (any, bool) { return nil, false }

// Set discards value.
func (Noop) Set(context.Context, string, any) {}

var keySpace = uuid.MustParse("6f1c8a52-3d7e-4b8f-9a61-0c2d5e7f9b14")

// Key derives a stable key from kind and parts.
func Key(kind string, parts ...string) string {
	return kind + ":" + uuid.NewSHA1(keySpace, []byte(strings.Join(parts, "\x00"))).String()
}

// OptimizeKey identifies a lineup optimization. Names are case folded but
// keep request order, since the lineup depends on it.
func OptimizeKey(format model.Format, seasons model.SeasonRange, players, machines []string) string {
	raw := fmt.Sprintf("optimize_%s_s%d-%d_%s_%s",
		format, seasons.Min, seasons.Max, foldedJoin(players), foldedJoin(machines))
	return Key("optimize", raw)
}

func foldedJoin(names []string) string {
	folded := make([]string, len(names))
	for i, n := range names {
		folded[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return strings.Join(folded, ",")
}
