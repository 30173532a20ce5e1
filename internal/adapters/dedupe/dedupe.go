// Package dedupe drops game records that several sources report twice.
package dedupe

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/okian/flipper/internal/domain/model"
)

// Deduper remembers which keys were already seen.
type Deduper interface {
	// SeenAndRecord reports whether key was seen before and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool
}

// RecordKey identifies a game: one machine in one round of one match.
func RecordKey(rec model.GameRecord) string {
	return strconv.Itoa(rec.Season) + "|" +
		strings.ToLower(strings.TrimSpace(rec.Match)) + "|" +
		strconv.Itoa(rec.Round) + "|" +
		strings.ToLower(strings.TrimSpace(rec.Machine))
}

// Records keeps the first occurrence of every game in recs and returns how
// many duplicates were dropped.
func Records(ctx context.Context, d Deduper, recs []model.GameRecord) ([]model.GameRecord, int) {
	out := recs[:0:0]
	dropped := 0
	for _, rec := range recs {
		if d.SeenAndRecord(ctx, RecordKey(rec)) {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	return out, dropped
}

// inMemoryDeduper keeps every key it has seen in a map.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInMemoryDeduper creates an empty in-memory deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[string]struct{})}
}

// SeenAndRecord checks and records key atomically.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}
