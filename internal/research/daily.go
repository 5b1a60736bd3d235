package research

import (
	"time"

	"stockresearch/internal/model"
)

// DailyPick returns the hand-authored stock of the day dated at startedAt.
// Its scores are editorial and are not produced by Score.
func DailyPick(startedAt time.Time) model.ResearchRecord {
	return model.ResearchRecord{
		Symbol:      "NVDA",
		Name:        "NVIDIA Corporation",
		RetrievedAt: startedAt,
		Direction:   model.DirectionBullish,
		MoveSummary: "AI hardware demand remains strong with fresh enterprise orders.",
		Thesis: []string{
			"Data center revenue momentum persists as generative AI adoption accelerates.",
			"Gaming GPU refresh cycle benefits from improving consumer spending.",
			"Margin profile remains resilient despite supply-chain normalization.",
		},
		Consensus: []model.ConsensusScore{
			{Source: model.SourceReddit, Score: 8.6, Summary: "Retail momentum and chatter about new GPU drops."},
			{Source: model.SourceAnalysts, Score: 9.1, Summary: "Target hikes tied to robust data center growth."},
			{Source: model.SourceBloggers, Score: 8.4, Summary: "AI leadership narrative remains intact."},
			{Source: model.SourceYouTube, Score: 8.8, Summary: "Creator community bullish on product roadmap."},
			{Source: model.SourceTikTok, Score: 7.9, Summary: "Trending clips on AI PC builds and GPU demand."},
		},
	}
}
