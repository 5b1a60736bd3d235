package storage

import (
	"context"
	"encoding/json"
)

const tilesKeyPrefix = "stockresearch:tiles:"

// Key returns the storage key holding the ticker list of email.
func Key(email string) string {
	return tilesKeyPrefix + email
}

// TickerList persists one ordered list of ticker symbols per email.
type TickerList struct {
	store Store
}

// NewTickerList creates a ticker list over store.
func NewTickerList(store Store) *TickerList {
	return &TickerList{store: store}
}

// Load returns the saved symbols for email. A missing or unparseable value
// yields an empty list; only store failures are returned as errors.
func (l *TickerList) Load(ctx context.Context, email string) ([]string, error) {
	raw, err := l.store.Get(ctx, Key(email))
	if err != nil {
		return []string{}, err
	}
	if raw == nil {
		return []string{}, nil
	}

	var symbols []string
	if err := json.Unmarshal(raw, &symbols); err != nil || symbols == nil {
		return []string{}, nil
	}
	return symbols, nil
}

// Save replaces the saved symbols for email.
func (l *TickerList) Save(ctx context.Context, email string, symbols []string) error {
	if symbols == nil {
		symbols = []string{}
	}
	raw, err := json.Marshal(symbols)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, Key(email), raw)
}
