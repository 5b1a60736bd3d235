package repository

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockresearch/internal/errors"
	"stockresearch/internal/model"
	"stockresearch/internal/research"
)

// TickerRepository defines ticker catalog persistence operations.
type TickerRepository interface {
	research.Catalog
	Upsert(ctx context.Context, tickers []model.Ticker) (int64, error)
	List(ctx context.Context) ([]model.Ticker, error)
}

type tickerRepository struct {
	db *gorm.DB
}

// NewTickerRepository creates a new GORM-backed ticker catalog.
func NewTickerRepository(db *gorm.DB) TickerRepository {
	return &tickerRepository{db: db}
}

// Lookup finds a ticker by symbol, ignoring case.
func (r *tickerRepository) Lookup(ctx context.Context, symbol string) (model.Ticker, error) {
	var ticker model.Ticker
	err := r.db.WithContext(ctx).
		Where("UPPER(symbol) = ?", strings.ToUpper(symbol)).
		First(&ticker).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return model.Ticker{}, errors.ErrUnknownTicker
	}
	if err != nil {
		return model.Ticker{}, err
	}
	return ticker, nil
}

// Search matches symbol or name substrings, ignoring case, in catalog order.
func (r *tickerRepository) Search(ctx context.Context, query string, limit int) ([]model.Ticker, error) {
	tickers := make([]model.Ticker, 0)
	if query == "" {
		return tickers, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(symbol) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Order("position, symbol").
		Limit(limit).
		Find(&tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

// Upsert inserts tickers or refreshes their name and position.
func (r *tickerRepository) Upsert(ctx context.Context, tickers []model.Ticker) (int64, error) {
	if len(tickers) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "position", "updated_at"}),
	}).Create(&tickers)
	return res.RowsAffected, res.Error
}

// List returns the whole catalog in order.
func (r *tickerRepository) List(ctx context.Context) ([]model.Ticker, error) {
	var tickers []model.Ticker
	if err := r.db.WithContext(ctx).Order("position, symbol").Find(&tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}

// escapeLike escapes LIKE wildcards using the default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
