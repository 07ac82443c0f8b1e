// Package store persists ranked-market cache entries across runs. All
// backends share one contract: a miss (absent, expired, or unreadable)
// is (nil, nil), never an error.
package store

import (
	"context"
	"time"

	"github.com/exportdesk/advisor-cli/internal/model"
)

// Entry is one cached ranking, keyed by the category/origin digest.
type Entry struct {
	Key       string               `json:"key"`
	Category  string               `json:"category"`
	Origin    string               `json:"origin"`
	Payload   []model.CountryScore `json:"payload"`
	CreatedAt time.Time            `json:"created_at"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// Expired reports whether the entry is past its TTL at now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// Store is the persistence contract behind the result cache.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, entry Entry) error
	DeleteExpired(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}
