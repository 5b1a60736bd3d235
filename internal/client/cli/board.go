package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func addBoardCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBoardCmd(app))
	rootCmd.AddCommand(newResearchCmd(app))
	rootCmd.AddCommand(newRemoveCmd(app))
	rootCmd.AddCommand(newSearchCmd(app))
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show your research board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.ensureBoard(cmd.Context()); err != nil {
				return err
			}
			app.printBoard()
			return nil
		},
	}
}

func newResearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "research <ticker>",
		Short:   "Research a ticker and pin it to the top of your board",
		Example: `  stockresearch research aapl`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ticker := strings.ToUpper(strings.TrimSpace(args[0]))
			if ticker == "" {
				return nil
			}

			if _, err := app.ensureBoard(ctx); err != nil {
				return err
			}
			if err := app.Tiles.FetchResearch(ctx, ticker, false); err != nil {
				if app.Tiles.Email() != "" {
					app.printBoard()
				}
				return &ReportedError{Err: err}
			}
			app.printBoard()
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ticker>",
		Short: "Remove a researched ticker from your board",
		Long: `Remove a researched ticker from your board.

The stock of the day is pinned and cannot be removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ticker := strings.ToUpper(strings.TrimSpace(args[0]))

			if _, err := app.ensureBoard(ctx); err != nil {
				return err
			}
			if err := app.Tiles.Remove(ctx, ticker); err != nil {
				return err
			}
			app.printBoard()
			return nil
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Suggest tickers by symbol or company name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(args[0])
			for _, t := range app.Tiles.Suggest(cmd.Context(), term) {
				app.out.Println(fmt.Sprintf("%-6s %s", t.Symbol, t.Name))
			}
			return nil
		},
	}
}
