package demo

import (
	"context"

	"github.com/leapstack-labs/rowmodel/pkg/gateway"
	"github.com/leapstack-labs/rowmodel/pkg/model"
	"github.com/leapstack-labs/rowmodel/pkg/query"
)

// TableStats reads user-table usage statistics from the postgres statistics
// collector. The model is keyless: every snapshot yields fresh instances,
// like plain value objects.
type TableStats struct {
	gw    *gateway.Gateway
	cache *model.Cache
}

// NewTableStats creates the repository.
func NewTableStats(gw *gateway.Gateway) *TableStats {
	return &TableStats{
		gw:    gw,
		cache: model.NewCache(),
	}
}

// Snapshot returns one instance per user table, stamped with the engine's
// current time.
func (s *TableStats) Snapshot(ctx context.Context) ([]*model.Object, error) {
	records, err := s.gw.GetAll(ctx, query.MustNew(
		"SELECT schemaname AS schema, relname AS table,"+
			" seq_scan, idx_scan, now() AS observed_at FROM pg_stat_user_tables"))
	if err != nil {
		return nil, err
	}

	stats := make([]*model.Object, 0, len(records))
	for _, rec := range records {
		st, err := s.cache.Construct(rec)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, nil
}
