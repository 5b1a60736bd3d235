// Package cli provides the terminal client commands.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockresearch/internal/client/api"
	"stockresearch/internal/client/config"
	"stockresearch/internal/client/render"
	"stockresearch/internal/client/storage"
	"stockresearch/internal/client/tiles"
	"stockresearch/internal/logging"
)

// App holds the client dependencies for one command run.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	API      *api.Client
	Session  *storage.SessionState
	Tiles    *tiles.Reconciler
	Renderer *render.Renderer

	db  *sql.DB
	out *Output
}

// ReportedError wraps an error whose message was already shown to the user.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Execute runs the client command line in args. Local state is saved and
// closed even when the command fails.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	app := &App{}
	rootCmd := NewRootCmd(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := app.close(ctx); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// NewRootCmd creates the root command for the client.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stockresearch",
		Short: "Terminal client for the stock research board",
		Long: `stockresearch logs in with a one-time email code and keeps a board of
research cards: the pinned stock of the day plus the tickers you research.

Your researched tickers are saved locally per email and restored on every run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", config.DefaultConfigDir(), "config directory")
	rootCmd.PersistentFlags().String("server", "", "API base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().String("db", "", "local state database (default <config>/client.db)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addAuthCommands(rootCmd, app)
	addBoardCommands(rootCmd, app)

	return rootCmd
}

func (a *App) open(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	flags := cmd.Root().PersistentFlags()
	configDir, _ := flags.GetString("config")

	v := config.New(configDir)
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.Config = cfg

	level := "warn"
	if cfg.Debug {
		level = "debug"
	}
	a.Logger = logging.New(logging.Config{
		Level:    level,
		Console:  cmd.ErrOrStderr(),
		FilePath: cfg.LogFile,
	})

	a.Renderer = render.New(render.DefaultWidth)
	a.out = NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.Renderer)

	a.db, err = storage.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open local state: %w", err)
	}
	store := storage.NewSQLiteStore(a.db)
	a.Session = storage.NewSessionState(store)

	a.API, err = api.New(cfg.Server)
	if err != nil {
		return err
	}
	cookie, err := a.Session.Cookie(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("load session cookie")
	}
	if cookie != "" {
		a.API.SetSessionCookie(cookie)
	}

	a.Tiles = tiles.NewReconciler(a.API, storage.NewTickerList(store), a.out,
		tiles.WithLogger(a.Logger),
		tiles.OnAuthLost(func() { a.API.SetSessionCookie("") }),
	)

	a.Logger.Debug().Str("server", cfg.Server).Str("db", cfg.DBPath).Msg("client ready")
	return nil
}

// close saves the session cookie for the next run and releases the store.
func (a *App) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.db == nil {
		return nil
	}
	defer func() {
		_ = a.db.Close()
		a.db = nil
	}()
	if a.API == nil {
		return nil
	}
	if err := a.Session.SetCookie(ctx, a.API.SessionCookie()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ensureBoard checks the session and rebuilds the board, like a page load.
// It returns the signed-in email.
func (a *App) ensureBoard(ctx context.Context) (string, error) {
	status, err := a.API.Session(ctx)
	if err != nil {
		return "", err
	}
	if !status.Authenticated {
		a.Tiles.ClearForLogout()
		a.API.SetSessionCookie("")
		a.out.Println(notSignedIn)
		return "", &ReportedError{Err: api.ErrAuthRequired}
	}

	a.out.Println("Logged in as " + status.Email)
	if err := a.Tiles.Bootstrap(ctx, status.Email); err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			return "", &ReportedError{Err: err}
		}
		return "", err
	}
	return status.Email, nil
}

func (a *App) printBoard() {
	a.out.Println(a.Renderer.Board(a.Tiles.Tiles()))
}

// Output writes command output and implements tiles.StatusSink.
type Output struct {
	out      io.Writer
	err      io.Writer
	renderer *render.Renderer
}

var _ tiles.StatusSink = (*Output)(nil)

// NewOutput creates an Output writing results to out and status to err.
func NewOutput(out, err io.Writer, renderer *render.Renderer) *Output {
	return &Output{out: out, err: err, renderer: renderer}
}

// Println prints a line of output.
func (o *Output) Println(s string) {
	fmt.Fprintln(o.out, s)
}

// Status prints a neutral status line. Empty messages are dropped.
func (o *Output) Status(message string) {
	if message == "" {
		return
	}
	fmt.Fprintln(o.err, o.renderer.Status(message))
}

// Error prints an error status line.
func (o *Output) Error(message string) {
	if message == "" {
		return
	}
	fmt.Fprintln(o.err, o.renderer.Error(message))
}
