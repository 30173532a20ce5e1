package source

import (
	"context"

	"github.com/okian/flipper/internal/domain/model"
)

// Memory serves a fixed set of records held in memory.
type Memory struct {
	records    []model.GameRecord
	variations Variations
}

// NewMemory creates a Memory source over records. v may be nil.
func NewMemory(records []model.GameRecord, v Variations) *Memory {
	return &Memory{records: append([]model.GameRecord(nil), records...), variations: v}
}

// FetchGames returns the records matching f.
func (m *Memory) FetchGames(ctx context.Context, f Filter) ([]model.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	match := compile(f, m.variations)

	out := make([]model.GameRecord, 0, len(m.records))
	for _, rec := range m.records {
		if match.match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
