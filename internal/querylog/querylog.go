// internal/querylog/querylog.go
package querylog

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
	"betabot/internal/models"
)

const (
	logKey     = "betabot:asklog"
	maxEntries = 100
)

// Store keeps a capped list of recently answered queries for the dashboard.
// Writes are best effort; a failure never affects the response.
type Store struct {
	rdb    *redis.Client
	logger logger.Logger
}

// NewStore creates a query-log store over the Redis connection.
func NewStore(rdb *redis.Client, log logger.Logger) *Store {
	return &Store{
		rdb: rdb,
		logger: log.With(map[string]interface{}{
			"component": "querylog",
		}),
	}
}

// Record appends one entry and trims the list to the cap.
func (s *Store) Record(ctx context.Context, entry models.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return stderrors.NewQuerylogUnavailableError(err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, logKey, data)
	pipe.LTrim(ctx, logKey, 0, maxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return stderrors.NewQuerylogUnavailableError(err)
	}

	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]models.LogEntry, error) {
	if n <= 0 || n > maxEntries {
		n = maxEntries
	}

	raw, err := s.rdb.LRange(ctx, logKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, stderrors.NewQuerylogUnavailableError(err)
	}

	entries := make([]models.LogEntry, 0, len(raw))
	for _, item := range raw {
		var entry models.LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// Skip corrupt entries rather than failing the listing.
			s.logger.Warn("skipping corrupt log entry", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// NoOp is the explicit offline variant used when Redis is not configured.
type NoOp struct{}

func (NoOp) Record(ctx context.Context, entry models.LogEntry) error {
	return nil
}

func (NoOp) Recent(ctx context.Context, n int) ([]models.LogEntry, error) {
	return nil, nil
}
