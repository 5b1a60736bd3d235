package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockresearch/internal/client/tiles"
	"stockresearch/internal/model"
)

func sampleTile(stockOfDay bool) tiles.Tile {
	return tiles.Tile{
		StockOfDay: stockOfDay,
		ResearchView: model.ResearchView{
			DisplayDate: "October 19, 2026",
			ResearchRecord: model.ResearchRecord{
				Symbol:      "NVDA",
				Name:        "NVIDIA Corporation",
				Direction:   model.DirectionBullish,
				MoveSummary: "Shares moved higher.",
				Thesis:      []string{"First point.", "Second point.", "Third point."},
				Consensus: []model.ConsensusScore{
					{Source: model.SourceReddit, Score: 8.6, Summary: "Retail chatter."},
					{Source: model.SourceTikTok, Score: 6.0, Summary: "Short clips."},
				},
			},
		},
	}
}

func TestRenderer_Tile(t *testing.T) {
	r := New(0)

	pinned := r.Tile(sampleTile(true))
	assert.Contains(t, pinned, "NVDA · NVIDIA Corporation")
	assert.Contains(t, pinned, "Bullish")
	assert.Contains(t, pinned, "Stock of the Day")
	assert.Contains(t, pinned, "October 19, 2026")
	assert.Contains(t, pinned, "Pinned daily idea")
	assert.Contains(t, pinned, "8.6 / 10 · Retail chatter.")
	assert.Contains(t, pinned, "6.0 / 10 · Short clips.")

	saved := r.Tile(sampleTile(false))
	assert.Contains(t, saved, "AI Research")
	assert.Contains(t, saved, "Saved to your board")
	assert.NotContains(t, saved, "Pinned daily idea")
}

func TestRenderer_BearishBadge(t *testing.T) {
	tile := sampleTile(false)
	tile.Direction = model.DirectionBearish
	assert.Contains(t, New(80).Tile(tile), "Bearish")
}

func TestRenderer_BoardKeepsOrder(t *testing.T) {
	r := New(0)
	first := sampleTile(false)
	first.Symbol = "MSFT"
	out := r.Board([]tiles.Tile{first, sampleTile(true)})

	assert.Less(t, strings.Index(out, "MSFT ·"), strings.Index(out, "NVDA ·"))
	assert.Contains(t, r.Board(nil), "No tiles yet.")
}
