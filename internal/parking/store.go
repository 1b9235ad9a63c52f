package parking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sheet4riders/DataNantes/internal/opendata"
)

// Fetcher retrieves one snapshot of the four parking feeds.
type Fetcher interface {
	FetchAll(ctx context.Context) (opendata.Feeds, error)
}

// Store holds the merged parking data in memory behind a soft TTL. Reads
// refetch opportunistically once the snapshot is older than the TTL; a
// failed refetch keeps serving the previous snapshot.
type Store struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *slog.Logger

	mu        sync.Mutex
	records   []Record
	payload   string
	stats     Stats
	fetchedAt time.Time

	now func() time.Time
}

// NewStore creates a Store. ttl is the soft data lifetime (300 s by
// default in config).
func NewStore(fetcher Fetcher, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		payload: NoDataMessage,
		now:     time.Now,
	}
}

// Snapshot returns the merged records and the LLM payload, refetching
// first when the snapshot is stale. An error is returned only when no
// snapshot was ever loaded.
func (s *Store) Snapshot(ctx context.Context) ([]Record, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetchedAt.IsZero() || s.now().Sub(s.fetchedAt) > s.ttl {
		if err := s.refreshLocked(ctx); err != nil {
			if s.fetchedAt.IsZero() {
				return nil, NoDataMessage, fmt.Errorf("no parking data available: %w", err)
			}
			s.logger.Warn("refresh failed, serving stale snapshot",
				"age", s.now().Sub(s.fetchedAt).String(), "error", err)
		}
	}

	return s.records, s.payload, nil
}

// Refresh forces a refetch regardless of snapshot age and returns the new
// stats. Backs the UI refresh button.
func (s *Store) Refresh(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(ctx); err != nil {
		return s.stats, err
	}
	return s.stats, nil
}

// Stats returns the stats of the current snapshot.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// LastUpdate returns when the current snapshot was fetched. Zero when no
// fetch has succeeded yet.
func (s *Store) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}

func (s *Store) refreshLocked(ctx context.Context) error {
	feeds, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.records = Merge(feeds)
	s.payload = Payload(s.records)
	s.stats = ComputeStats(feeds)
	s.fetchedAt = s.now()

	s.logger.Info("parking snapshot refreshed",
		"records", len(s.records),
		"facilities", s.stats.Facilities,
		"available_spaces", s.stats.AvailableSpaces)

	return nil
}
