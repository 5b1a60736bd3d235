package service

import (
	"context"
	"time"

	"stockresearch/internal/model"
	"stockresearch/internal/research"
)

// ResearchService serves the daily pick, ticker suggestions and on-demand research.
type ResearchService interface {
	StockOfDay(ctx context.Context) model.ResearchRecord
	Search(ctx context.Context, query string) ([]model.Ticker, error)
	Research(ctx context.Context, symbol string) (model.ResearchRecord, error)
}

type researchService struct {
	catalog research.Catalog
	engine  *research.Engine
	daily   model.ResearchRecord
}

// NewResearchService creates a research service. The daily pick is fixed for
// the lifetime of the service and dated at startedAt.
func NewResearchService(catalog research.Catalog, engine *research.Engine, startedAt time.Time) ResearchService {
	return &researchService{
		catalog: catalog,
		engine:  engine,
		daily:   research.DailyPick(startedAt),
	}
}

func (s *researchService) StockOfDay(_ context.Context) model.ResearchRecord {
	daily := s.daily
	daily.Thesis = append([]string(nil), s.daily.Thesis...)
	daily.Consensus = append([]model.ConsensusScore(nil), s.daily.Consensus...)
	return daily
}

func (s *researchService) Search(ctx context.Context, query string) ([]model.Ticker, error) {
	return s.catalog.Search(ctx, query, research.SearchLimit)
}

func (s *researchService) Research(ctx context.Context, symbol string) (model.ResearchRecord, error) {
	return s.engine.Synthesize(ctx, symbol)
}
