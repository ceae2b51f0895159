// internal/warehouse/indicators_test.go
package warehouse

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
	"betabot/internal/models"
)

func TestIndicatorStore_Snapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"indicator_name", "year", "value"}).
		AddRow("GDP growth (annual %)", 2024, 3.4).
		AddRow("Inflation, consumer prices (annual %)", 2024, 24.5).
		AddRow("GDP growth (annual %)", 2023, 2.9)

	mock.ExpectQuery("SELECT indicator_name, year, value").
		WithArgs("NGA", "GDP growth (annual %)", "Inflation, consumer prices (annual %)", 3).
		WillReturnRows(rows)

	store := NewIndicatorStore(db, logger.NewTestLogger(t))

	snaps, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, 2024, snaps[0].Year)
	assert.Equal(t, "GDP growth (annual %)", snaps[0].Indicator)
	assert.InDelta(t, 24.5, snaps[1].Value, 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndicatorStore_Snapshot_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT indicator_name, year, value").
		WillReturnError(fmt.Errorf("connection reset"))

	store := NewIndicatorStore(db, logger.NewTestLogger(t))

	_, err = store.Snapshot(context.Background())
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeWarehouseQueryFailed, stdErr.Code)
}

func TestFormatContext(t *testing.T) {
	snaps := []models.EconomicSnapshot{
		{Indicator: "GDP growth (annual %)", Year: 2024, Value: 3.4},
		{Indicator: "Inflation, consumer prices (annual %)", Year: 2024, Value: 24.52},
	}

	got := FormatContext(snaps)
	assert.Contains(t, got, "NIGERIA ECONOMIC INDICATORS:")
	assert.Contains(t, got, "- GDP growth (annual %) (2024): 3.40")
	assert.Contains(t, got, "- Inflation, consumer prices (annual %) (2024): 24.52")

	// Deterministic for the same rows.
	assert.Equal(t, got, FormatContext(snaps))
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Empty(t, FormatContext(nil))
}

func TestUnavailable_Snapshot(t *testing.T) {
	u := Unavailable{Err: fmt.Errorf("dial failed")}

	_, err := u.Snapshot(context.Background())
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeWarehouseUnavailable, stdErr.Code)
}
