package store

import (
	"context"
	"errors"
	"time"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

// Store persists the tracker state between cycles.
//
// Load never fails: a missing or unreadable record yields tracker.Empty().
// Save replaces the whole record atomically.
type Store interface {
	Load(ctx context.Context) tracker.State
	Save(ctx context.Context, st tracker.State) error
	Close() error
}

// Delivery is one market line that was sent to the chat.
type Delivery struct {
	ID      string
	CycleID string
	Kind    string // "update" or "summary"
	Day     string
	Market  markets.Market
	Result  string
	SentAt  time.Time
}

const (
	KindUpdate  = "update"
	KindSummary = "summary"
)

// Journal is implemented by stores that keep a delivery history.
type Journal interface {
	RecordDeliveries(ctx context.Context, ds []Delivery) error
	PruneDeliveries(ctx context.Context, before time.Time) (int64, error)
}

var ErrBackupUnsupported = errors.New("backup is only supported by the sqlite backend")
