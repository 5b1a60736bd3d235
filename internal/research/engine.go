package research

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockresearch/internal/model"
)

// bullishThreshold is the sentiment score at or above which a ticker is bullish.
var bullishThreshold = decimal.New(75, -1)

type sourceSpec struct {
	source  string
	label   string
	summary string
}

var consensusSources = []sourceSpec{
	{model.SourceReddit, LabelReddit, "Retail investor chatter and watchlists."},
	{model.SourceAnalysts, LabelAnalysts, "Street estimate revisions and PT changes."},
	{model.SourceBloggers, LabelBloggers, "Independent research and newsletter picks."},
	{model.SourceYouTube, LabelYouTube, "Creator breakdowns of catalysts and risks."},
	{model.SourceTikTok, LabelTikTok, "Short-form buzz and momentum clips."},
}

// Engine synthesizes research records for catalog tickers.
type Engine struct {
	catalog Catalog
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for RetrievedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine over catalog.
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Synthesize builds the research record for symbol. Everything except
// RetrievedAt depends only on the canonical symbol and name.
func (e *Engine) Synthesize(ctx context.Context, symbol string) (model.ResearchRecord, error) {
	ticker, err := e.catalog.Lookup(ctx, symbol)
	if err != nil {
		return model.ResearchRecord{}, fmt.Errorf("lookup %q: %w", symbol, err)
	}

	bullish := Score(ticker.Symbol, LabelSentiment).GreaterThanOrEqual(bullishThreshold)

	record := model.ResearchRecord{
		Symbol:      ticker.Symbol,
		Name:        ticker.Name,
		RetrievedAt: e.now(),
		Direction:   model.DirectionBearish,
		MoveSummary: "Caution around slowing indicators and profit-taking after a strong run.",
		Thesis:      thesis(ticker.Name, bullish),
		Consensus:   make([]model.ConsensusScore, 0, len(consensusSources)),
	}
	if bullish {
		record.Direction = model.DirectionBullish
		record.MoveSummary = "Momentum supported by improving demand signals and positive revisions."
	}

	for _, src := range consensusSources {
		record.Consensus = append(record.Consensus, model.ConsensusScore{
			Source:  src.source,
			Score:   Score(ticker.Symbol, src.label).InexactFloat64(),
			Summary: src.summary,
		})
	}
	return record, nil
}

func thesis(name string, bullish bool) []string {
	demand, revisions := "moderating", "mixed"
	if bullish {
		demand, revisions = "expanding", "upward"
	}
	return []string{
		fmt.Sprintf("%s shows %s demand across core segments", name, demand),
		"Liquidity and balance sheet flexibility support ongoing investment pace",
		fmt.Sprintf("Alt data points to %s revisions in near-term estimates", revisions),
	}
}
