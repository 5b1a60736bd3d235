package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockresearch/internal/model"
	"stockresearch/internal/research"
)

func TestToModels(t *testing.T) {
	rows, skipped := toModels([]model.Ticker{
		{Symbol: " aapl ", Name: "Apple Inc."},
		{Symbol: "", Name: "Blank"},
		{Symbol: "AAPL", Name: "Duplicate"},
		{Symbol: "msft", Name: " Microsoft Corporation "},
	})

	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, model.Ticker{Symbol: "AAPL", Name: "Apple Inc.", Position: 0}, rows[0])
	assert.Equal(t, model.Ticker{Symbol: "MSFT", Name: "Microsoft Corporation", Position: 1}, rows[1])
}

func TestToModels_DefaultTable(t *testing.T) {
	rows, skipped := toModels(research.DefaultTickers)
	assert.Zero(t, skipped)
	require.Len(t, rows, 15)
	assert.Equal(t, "BAC", rows[14].Symbol)
	assert.Equal(t, 14, rows[14].Position)
}

func TestLoadTickers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"symbol":"AMD","name":"Advanced Micro Devices, Inc."}]`), 0o600))

	tickers, err := loadTickers(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Ticker{{Symbol: "AMD", Name: "Advanced Micro Devices, Inc."}}, tickers)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = loadTickers(path)
	assert.Error(t, err)
}

// MockTickerRepository is a mock implementation of repository.TickerRepository.
type MockTickerRepository struct {
	mock.Mock
}

func (m *MockTickerRepository) Lookup(ctx context.Context, symbol string) (model.Ticker, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(model.Ticker), args.Error(1)
}

func (m *MockTickerRepository) Search(ctx context.Context, query string, limit int) ([]model.Ticker, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]model.Ticker), args.Error(1)
}

func (m *MockTickerRepository) Upsert(ctx context.Context, tickers []model.Ticker) (int64, error) {
	args := m.Called(ctx, tickers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTickerRepository) List(ctx context.Context) ([]model.Ticker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Ticker), args.Error(1)
}

func TestSeed_UpsertsAndLogsCatalog(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTickerRepository)
	repo.On("Upsert", ctx, []model.Ticker{
		{Symbol: "AAPL", Name: "Apple Inc.", Position: 0},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Position: 1},
	}).Return(int64(2), nil)
	repo.On("List", ctx).Return([]model.Ticker{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "IBM", Name: "International Business Machines Corporation"},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
	}, nil)

	var buf bytes.Buffer
	err := seed(ctx, repo, []model.Ticker{
		{Symbol: "aapl", Name: "Apple Inc."},
		{Symbol: "msft", Name: "Microsoft Corporation"},
		{Symbol: " ", Name: "Blank"},
	}, zerolog.New(&buf))

	require.NoError(t, err)
	repo.AssertExpectations(t)
	assert.Contains(t, buf.String(), `"skipped":1`)
	assert.Contains(t, buf.String(), `"catalog_size":3`)
	assert.Contains(t, buf.String(), `"catalog":["AAPL","IBM","MSFT"]`)
}

func TestSeed_UpsertFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTickerRepository)
	repo.On("Upsert", ctx, mock.Anything).Return(int64(0), stderrors.New("connection refused"))

	err := seed(ctx, repo, research.DefaultTickers, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed tickers")
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd()
	flag := cmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)

	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
