package tiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"stockresearch/internal/client/api"
	"stockresearch/internal/client/storage"
	"stockresearch/internal/model"
)

// Status texts shown while working and after a lost session.
const (
	StatusResearching    = "Researching..."
	StatusSessionExpired = "Session expired. Please log in again."
)

// API is the part of the server API the reconciler needs.
type API interface {
	StockOfDay(ctx context.Context) (model.ResearchView, error)
	Research(ctx context.Context, symbol string) (model.ResearchView, error)
	Search(ctx context.Context, query string) ([]model.Ticker, error)
}

// StatusSink receives user-facing status messages. An empty message clears
// the status.
type StatusSink interface {
	Status(message string)
	Error(message string)
}

// Reconciler merges fetched research into the board and persists the user's
// ticker choices.
type Reconciler struct {
	api     API
	tickers *storage.TickerList
	status  StatusSink
	log     zerolog.Logger

	board Board
	email string

	// onAuthLost runs after the board is cleared for a 401.
	onAuthLost func()
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger for persistence warnings.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reconciler) { r.log = log }
}

// OnAuthLost registers a callback for a lost session, e.g. to drop the
// stored cookie.
func OnAuthLost(fn func()) Option {
	return func(r *Reconciler) { r.onAuthLost = fn }
}

// NewReconciler creates a reconciler with an empty board.
func NewReconciler(client API, tickers *storage.TickerList, status StatusSink, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:     client,
		tickers: tickers,
		status:  status,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tiles returns the board in display order.
func (r *Reconciler) Tiles() []Tile {
	return r.board.Tiles()
}

// Email returns the email the board belongs to, or "" when logged out.
func (r *Reconciler) Email() string {
	return r.email
}

// Bootstrap rebuilds the board for email: the daily pick, then every saved
// ticker in saved order. Per-ticker status messages are suppressed and the
// saved list is not rewritten. It stops early only when the session is lost.
func (r *Reconciler) Bootstrap(ctx context.Context, email string) error {
	r.board.Clear()
	r.email = email

	if err := r.LoadDailyPick(ctx); errors.Is(err, api.ErrAuthRequired) {
		return err
	}

	saved, err := r.tickers.Load(ctx, email)
	if err != nil {
		r.log.Warn().Err(err).Str("email", email).Msg("load saved tickers")
	}

	for _, symbol := range saved {
		view, err := r.api.Research(ctx, symbol)
		if err != nil {
			if r.handleError(err) {
				return err
			}
			continue
		}
		r.board.PushBack(view)
	}
	return nil
}

// LoadDailyPick fetches the daily pick and installs it.
func (r *Reconciler) LoadDailyPick(ctx context.Context) error {
	view, err := r.api.StockOfDay(ctx)
	if err != nil {
		r.handleError(err)
		return err
	}
	r.InstallDailyPick(view)
	return nil
}

// InstallDailyPick replaces the daily pick; it always sorts last.
func (r *Reconciler) InstallDailyPick(view model.ResearchView) {
	r.board.SetDaily(view)
}

// FetchResearch fetches research for ticker and installs it. Unless silent,
// progress is reported to the status sink. On failure the board is left
// unchanged, except that a lost session clears it.
func (r *Reconciler) FetchResearch(ctx context.Context, ticker string, silent bool) error {
	if ticker == "" {
		return nil
	}
	if !silent {
		r.status.Status(StatusResearching)
	}

	view, err := r.api.Research(ctx, ticker)
	if err != nil {
		r.handleError(err)
		return err
	}

	if err := r.InstallResearchTile(ctx, view); err != nil {
		r.status.Error(err.Error())
		return err
	}
	r.status.Status("")
	return nil
}

// InstallResearchTile puts view first among research tiles, replacing any
// tile for the same symbol, then saves the research symbols.
func (r *Reconciler) InstallResearchTile(ctx context.Context, view model.ResearchView) error {
	r.board.PushFront(view)
	return r.persist(ctx)
}

// Remove deletes the research tile for symbol and saves the result. The
// daily pick cannot be removed; for it this is a no-op.
func (r *Reconciler) Remove(ctx context.Context, symbol string) error {
	if !r.board.Remove(symbol) {
		return nil
	}
	return r.persist(ctx)
}

// ClearForLogout empties the board and forgets the email. Saved tickers are
// kept for the next login.
func (r *Reconciler) ClearForLogout() {
	r.board.Clear()
	r.email = ""
}

// Suggest returns ticker suggestions for term. It is best effort: failures
// yield no suggestions and never reach the status sink or the board.
func (r *Reconciler) Suggest(ctx context.Context, term string) []model.Ticker {
	if term == "" {
		return nil
	}
	results, err := r.api.Search(ctx, term)
	if err != nil {
		r.log.Debug().Err(err).Str("term", term).Msg("suggestions unavailable")
		return nil
	}
	return results
}

func (r *Reconciler) persist(ctx context.Context) error {
	if r.email == "" {
		return nil
	}
	if err := r.tickers.Save(ctx, r.email, r.board.Symbols()); err != nil {
		return fmt.Errorf("save tickers: %w", err)
	}
	return nil
}

// handleError reports err and reports whether the session was lost.
func (r *Reconciler) handleError(err error) bool {
	if errors.Is(err, api.ErrAuthRequired) {
		r.ClearForLogout()
		if r.onAuthLost != nil {
			r.onAuthLost()
		}
		r.status.Error(StatusSessionExpired)
		return true
	}
	r.status.Error(err.Error())
	return false
}
