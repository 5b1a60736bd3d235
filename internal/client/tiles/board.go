// Package tiles holds the client's ordered set of research tiles and keeps
// it consistent with the per-user saved ticker list.
package tiles

import "stockresearch/internal/model"

// Tile is a research card. StockOfDay marks the pinned daily pick.
type Tile struct {
	model.ResearchView
	StockOfDay bool `json:"isStockOfDay"`
}

// Board is the ordered tile sequence: user research tiles, most recent
// first, followed by at most one daily-pick tile.
//
// Research tiles are unique by symbol among themselves. The daily pick is
// kept apart and never deduplicated against them, so a research tile may
// share its symbol.
type Board struct {
	research []Tile
	daily    *Tile
}

// Tiles returns the sequence in display order. The slice is a copy.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, 0, b.Len())
	out = append(out, b.research...)
	if b.daily != nil {
		out = append(out, *b.daily)
	}
	return out
}

// Len returns the number of tiles, daily pick included.
func (b *Board) Len() int {
	n := len(b.research)
	if b.daily != nil {
		n++
	}
	return n
}

// SetDaily replaces the daily-pick tile.
func (b *Board) SetDaily(view model.ResearchView) {
	b.daily = &Tile{ResearchView: view, StockOfDay: true}
}

// PushFront inserts a research tile first, replacing any research tile with
// the same symbol. Other tiles keep their relative order.
func (b *Board) PushFront(view model.ResearchView) {
	b.drop(view.Symbol)
	b.research = append(b.research, Tile{})
	copy(b.research[1:], b.research)
	b.research[0] = Tile{ResearchView: view}
}

// PushBack inserts a research tile last among research tiles, replacing any
// research tile with the same symbol.
func (b *Board) PushBack(view model.ResearchView) {
	b.drop(view.Symbol)
	b.research = append(b.research, Tile{ResearchView: view})
}

// Remove deletes the research tile for symbol. The daily pick is never
// removed. It reports whether a tile was removed.
func (b *Board) Remove(symbol string) bool {
	return b.drop(symbol)
}

// Symbols returns the research tile symbols in order.
func (b *Board) Symbols() []string {
	symbols := make([]string, 0, len(b.research))
	for _, t := range b.research {
		symbols = append(symbols, t.Symbol)
	}
	return symbols
}

// Clear empties the board.
func (b *Board) Clear() {
	b.research = nil
	b.daily = nil
}

func (b *Board) drop(symbol string) bool {
	for i, t := range b.research {
		if t.Symbol == symbol {
			b.research = append(b.research[:i], b.research[i+1:]...)
			return true
		}
	}
	return false
}
