// Package render draws research tiles as terminal cards.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stockresearch/internal/client/tiles"
	"stockresearch/internal/model"
)

// DefaultWidth is the card width used when the caller has no preference.
const DefaultWidth = 72

const barWidth = 20

var (
	colorBullish = lipgloss.Color("#8BC34A")
	colorBearish = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#6b7280")
	colorAccent  = lipgloss.Color("#2196F3")
	colorPinned  = lipgloss.Color("#FFC107")
)

// Styles holds the card styles.
type Styles struct {
	Card       lipgloss.Style
	PinnedCard lipgloss.Style
	Title      lipgloss.Style
	Badge      lipgloss.Style
	Bullish    lipgloss.Style
	Bearish    lipgloss.Style
	Source     lipgloss.Style
	Hint       lipgloss.Style
	Footer     lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
}

// DefaultStyles returns the default card styles.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)
	badge := lipgloss.NewStyle().Foreground(colorMuted)

	return Styles{
		Card:       card,
		PinnedCard: card.BorderForeground(colorPinned),
		Title:      lipgloss.NewStyle().Bold(true),
		Badge:      badge,
		Bullish:    badge.Foreground(colorBullish).Bold(true),
		Bearish:    badge.Foreground(colorBearish).Bold(true),
		Source:     lipgloss.NewStyle().Bold(true).Width(10),
		Hint:       lipgloss.NewStyle().Foreground(colorMuted),
		Footer:     lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Status:     lipgloss.NewStyle().Foreground(colorAccent),
		Error:      lipgloss.NewStyle().Foreground(colorBearish),
	}
}

// Renderer draws tiles with a fixed style set and width.
type Renderer struct {
	styles Styles
	width  int
}

// New creates a renderer. A non-positive width selects DefaultWidth.
func New(width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{styles: DefaultStyles(), width: width}
}

// Board renders tiles top to bottom in the given order.
func (r *Renderer) Board(board []tiles.Tile) string {
	if len(board) == 0 {
		return r.styles.Hint.Render("No tiles yet.")
	}
	cards := make([]string, 0, len(board))
	for _, t := range board {
		cards = append(cards, r.Tile(t))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Tile renders a single card.
func (r *Renderer) Tile(t tiles.Tile) string {
	s := r.styles
	inner := r.width - 4

	title := s.Title.Render(fmt.Sprintf("%s · %s", t.Symbol, t.Name))

	mood := s.Bearish.Render("Bearish")
	if t.Direction == model.DirectionBullish {
		mood = s.Bullish.Render("Bullish")
	}
	tag := "AI Research"
	footer := "Saved to your board"
	if t.StockOfDay {
		tag = "Stock of the Day"
		footer = "Pinned daily idea"
	}
	badges := strings.Join([]string{mood, s.Badge.Render(tag), s.Badge.Render(t.DisplayDate)}, s.Badge.Render("  "))

	lines := []string{title, badges, "", lipgloss.NewStyle().Width(inner).Render(t.MoveSummary), ""}
	for _, point := range t.Thesis {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render("• "+point))
	}
	lines = append(lines, "")
	for _, c := range t.Consensus {
		lines = append(lines, r.consensusLine(c, inner))
	}
	lines = append(lines, "", s.Footer.Render(footer))

	card := s.Card
	if t.StockOfDay {
		card = s.PinnedCard
	}
	return card.Width(r.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Status renders a neutral status message.
func (r *Renderer) Status(message string) string {
	return r.styles.Status.Render(message)
}

// Error renders an error status message.
func (r *Renderer) Error(message string) string {
	return r.styles.Error.Render(message)
}

func (r *Renderer) consensusLine(c model.ConsensusScore, width int) string {
	filled := int(math.Round(math.Min(c.Score, 10) / 10 * barWidth))
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	note := fmt.Sprintf("%.1f / 10 · %s", c.Score, c.Summary)
	line := lipgloss.JoinHorizontal(lipgloss.Top, r.styles.Source.Render(c.Source), bar, " ")
	return lipgloss.JoinVertical(lipgloss.Left, line, r.styles.Hint.Width(width).Render(note))
}
