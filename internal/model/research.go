package model

import "time"

// Direction is the overall call of a research record.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
)

// Consensus sources in display order.
const (
	SourceReddit   = "Reddit"
	SourceAnalysts = "Analysts"
	SourceBloggers = "Bloggers"
	SourceYouTube  = "YouTube"
	SourceTikTok   = "TikTok"
)

// ConsensusScore is one source's rating of a ticker.
type ConsensusScore struct {
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
}

// ResearchRecord is the research card content for one ticker.
type ResearchRecord struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	RetrievedAt time.Time        `json:"retrievedAt"`
	Direction   Direction        `json:"direction"`
	MoveSummary string           `json:"moveSummary"`
	Thesis      []string         `json:"thesis"`
	Consensus   []ConsensusScore `json:"consensus"`
}

// ResearchView is a ResearchRecord as served over the API.
type ResearchView struct {
	ResearchRecord
	DisplayDate string `json:"displayDate"`
}

// DisplayDateLayout renders dates like "October 19, 2026".
const DisplayDateLayout = "January 2, 2006"

// NewResearchView formats the record's retrieval time for display.
func NewResearchView(r ResearchRecord) ResearchView {
	return ResearchView{
		ResearchRecord: r,
		DisplayDate:    r.RetrievedAt.Format(DisplayDateLayout),
	}
}
