package repository

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockresearch/internal/errors"
	"stockresearch/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func tickerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"symbol", "name", "position"})
}

func TestTickerRepository_Lookup(t *testing.T) {
	lookupSQL := regexp.QuoteMeta("SELECT * FROM `tickers` WHERE UPPER(symbol) = ?")

	tests := []struct {
		name    string
		symbol  string
		setup   func(mock sqlmock.Sqlmock)
		want    model.Ticker
		wantErr error
		anyErr  bool
	}{
		{
			name:   "matches regardless of case",
			symbol: "aApL",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lookupSQL).
					WithArgs("AAPL", sqlmock.AnyArg()).
					WillReturnRows(tickerRows().AddRow("AAPL", "Apple Inc.", 0))
			},
			want: model.Ticker{Symbol: "AAPL", Name: "Apple Inc."},
		},
		{
			name:   "missing symbol is an unknown ticker",
			symbol: "ZZZZ",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lookupSQL).
					WithArgs("ZZZZ", sqlmock.AnyArg()).
					WillReturnRows(tickerRows())
			},
			wantErr: errors.ErrUnknownTicker,
		},
		{
			name:   "database failure is passed through",
			symbol: "AAPL",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lookupSQL).WillReturnError(stderrors.New("connection reset"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			got, err := NewTickerRepository(db).Lookup(context.Background(), tt.symbol)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, errors.ErrUnknownTicker)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want.Symbol, got.Symbol)
				assert.Equal(t, tt.want.Name, got.Name)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTickerRepository_Search(t *testing.T) {
	searchSQL := `LOWER\(symbol\) LIKE \? OR LOWER\(name\) LIKE \?.*ORDER BY position, symbol LIMIT \?`

	t.Run("empty query skips the database", func(t *testing.T) {
		db, mock := newMockDB(t)

		got, err := NewTickerRepository(db).Search(context.Background(), "", 10)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lowercases the query and keeps catalog order", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(searchSQL).
			WithArgs("%micro%", "%micro%", 10).
			WillReturnRows(tickerRows().
				AddRow("MSFT", "Microsoft Corporation", 1).
				AddRow("AMD", "Advanced Micro Devices, Inc.", 11))

		got, err := NewTickerRepository(db).Search(context.Background(), "MICRO", 10)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "MSFT", got[0].Symbol)
		assert.Equal(t, "AMD", got[1].Symbol)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("escapes LIKE wildcards", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(searchSQL).
			WithArgs(`%50\%%`, `%50\%%`, 3).
			WillReturnRows(tickerRows())

		got, err := NewTickerRepository(db).Search(context.Background(), "50%", 3)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(searchSQL).WillReturnError(stderrors.New("connection reset"))

		got, err := NewTickerRepository(db).Search(context.Background(), "a", 10)

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestTickerRepository_Upsert(t *testing.T) {
	t.Run("updates name and position on conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `tickers`.*ON DUPLICATE KEY UPDATE.*`name`.*`position`.*`updated_at`").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		affected, err := NewTickerRepository(db).Upsert(context.Background(), []model.Ticker{
			{Symbol: "AAPL", Name: "Apple Inc.", Position: 0},
			{Symbol: "MSFT", Name: "Microsoft Corporation", Position: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to write", func(t *testing.T) {
		db, mock := newMockDB(t)

		affected, err := NewTickerRepository(db).Upsert(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTickerRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY position, symbol")).
		WillReturnRows(tickerRows().
			AddRow("AAPL", "Apple Inc.", 0).
			AddRow("MSFT", "Microsoft Corporation", 1))

	got, err := NewTickerRepository(db).List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, 1, got[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"apple", "apple"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}
