// internal/warehouse/indicators.go
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
	"betabot/internal/models"
)

// The indicator set is fixed: the same two series for one country, newest
// rows first, bound to snapshotRows. Never parameterized by query content.
const (
	countryCode        = "NGA"
	indicatorGDPGrowth = "GDP growth (annual %)"
	indicatorInflation = "Inflation, consumer prices (annual %)"
	snapshotRows       = 3
)

const snapshotQuery = `SELECT indicator_name, year, value
FROM economic_indicators
WHERE country_code = $1 AND indicator_name IN ($2, $3)
ORDER BY year DESC, indicator_name
LIMIT $4`

// IndicatorStore fetches the fixed economic snapshot from the warehouse.
type IndicatorStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewIndicatorStore creates a store over the warehouse connection.
func NewIndicatorStore(db *sql.DB, log logger.Logger) *IndicatorStore {
	return &IndicatorStore{
		db: db,
		logger: log.With(map[string]interface{}{
			"collaborator": "warehouse",
		}),
	}
}

// Snapshot returns the most recent indicator rows, year descending. Fetched
// fresh per query; nothing is cached.
func (s *IndicatorStore) Snapshot(ctx context.Context) ([]models.EconomicSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, snapshotQuery,
		countryCode, indicatorGDPGrowth, indicatorInflation, snapshotRows)
	if err != nil {
		return nil, stderrors.NewWarehouseQueryFailedError(err)
	}
	defer rows.Close()

	var out []models.EconomicSnapshot
	for rows.Next() {
		var snap models.EconomicSnapshot
		if err := rows.Scan(&snap.Indicator, &snap.Year, &snap.Value); err != nil {
			return nil, stderrors.NewWarehouseQueryFailedError(err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewWarehouseQueryFailedError(err)
	}

	s.logger.Info("indicator snapshot fetched", map[string]interface{}{
		"rowCount": len(out),
	})

	return out, nil
}

// FormatContext renders the snapshot as the economic-context prompt section.
// Deterministic for a given row set.
func FormatContext(snaps []models.EconomicSnapshot) string {
	if len(snaps) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("NIGERIA ECONOMIC INDICATORS:")
	for _, s := range snaps {
		fmt.Fprintf(&b, "\n- %s (%d): %.2f", s.Indicator, s.Year, s.Value)
	}
	return b.String()
}

// Unavailable is the explicit offline variant used when the warehouse
// connection could not be established at startup.
type Unavailable struct {
	Err error
}

func (u Unavailable) Snapshot(ctx context.Context) ([]models.EconomicSnapshot, error) {
	return nil, stderrors.NewWarehouseUnavailableError(u.Err)
}
