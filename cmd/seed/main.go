package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockresearch/internal/config"
	"stockresearch/internal/db"
	"stockresearch/internal/logging"
	"stockresearch/internal/model"
	"stockresearch/internal/repository"
	"stockresearch/internal/research"
)

// SeedTickerData is one entry of a ticker seed file.
type SeedTickerData struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load the ticker catalog into MySQL",
		Long:         "Upsert the researchable ticker table into MySQL. Without --file the built-in table is used.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", `JSON file with [{"symbol","name"}] entries; defaults to the built-in table`)
	return cmd
}

func run(ctx context.Context, file string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Console: os.Stdout, FilePath: cfg.LogFile})

	if cfg.MySQLDSN == "" {
		return fmt.Errorf("MYSQL_DSN is required to seed the ticker catalog")
	}

	tickers := research.DefaultTickers
	if file != "" {
		tickers, err = loadTickers(file)
		if err != nil {
			return fmt.Errorf("load seed file %s: %w", file, err)
		}
	}

	log.Info().Msg("starting seed")

	// Connect to database; NewMySQL migrates the ticker table.
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	return seed(ctx, repository.NewTickerRepository(gormDB), tickers, log)
}

// seed upserts tickers and logs the resulting catalog.
func seed(ctx context.Context, repo repository.TickerRepository, tickers []model.Ticker, log zerolog.Logger) error {
	rows, skipped := toModels(tickers)
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("skipped invalid tickers")
	}

	affected, err := repo.Upsert(ctx, rows)
	if err != nil {
		return fmt.Errorf("seed tickers: %w", err)
	}

	catalog, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}
	symbols := make([]string, 0, len(catalog))
	for _, t := range catalog {
		symbols = append(symbols, t.Symbol)
	}

	log.Info().
		Int("tickers", len(rows)).
		Int64("rows_affected", affected).
		Int("catalog_size", len(catalog)).
		Strs("catalog", symbols).
		Msg("seed completed")
	return nil
}

// loadTickers reads a JSON seed file.
func loadTickers(path string) ([]model.Ticker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []SeedTickerData
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	tickers := make([]model.Ticker, 0, len(items))
	for _, item := range items {
		tickers = append(tickers, model.Ticker{Symbol: item.Symbol, Name: item.Name})
	}
	return tickers, nil
}

// toModels normalizes symbols, drops blanks and duplicates, and numbers the
// rows in input order.
func toModels(tickers []model.Ticker) ([]model.Ticker, int) {
	rows := make([]model.Ticker, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	skipped := 0
	for _, t := range tickers {
		symbol := strings.ToUpper(strings.TrimSpace(t.Symbol))
		name := strings.TrimSpace(t.Name)
		if symbol == "" || name == "" || seen[symbol] {
			skipped++
			continue
		}
		seen[symbol] = true
		rows = append(rows, model.Ticker{Symbol: symbol, Name: name, Position: len(rows)})
	}
	return rows, skipped
}
