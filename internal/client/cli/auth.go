package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"stockresearch/internal/client/api"
)

const notSignedIn = "Not signed in"

func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newVerifyCmd(app))
	rootCmd.AddCommand(newSessionCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Request a one-time login code",
		Long: `Request a one-time login code for an email address.

The code is delivered by the server; in this demo it is written to the server log.
Complete the login with 'stockresearch verify <code>'.`,
		Example: `  stockresearch login you@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			email := strings.TrimSpace(args[0])
			if email == "" {
				return errors.New("email is required")
			}

			app.out.Status("Sending code...")
			message, err := app.API.Login(ctx, email)
			if err != nil {
				return reportAPIError(app, err)
			}
			if err := app.Session.SetPendingEmail(ctx, email); err != nil {
				app.Logger.Warn().Err(err).Msg("save pending email")
			}

			app.out.Println(message)
			app.out.Status("Code sent. Check the server logs in this demo.")
			return nil
		},
	}
}

func newVerifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <code>",
		Short: "Verify a login code and open your board",
		Example: `  stockresearch verify 123456
  stockresearch verify 123456 --email you@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code := strings.TrimSpace(args[0])

			email, _ := cmd.Flags().GetString("email")
			email = strings.TrimSpace(email)
			if email == "" {
				pending, err := app.Session.PendingEmail(ctx)
				if err != nil {
					return err
				}
				email = pending
			}
			if email == "" || code == "" {
				return errors.New("an email and a code are required; run 'stockresearch login <email>' first")
			}

			app.out.Status("Verifying...")
			verified, err := app.API.Verify(ctx, email, code)
			if err != nil {
				return reportAPIError(app, err)
			}
			if err := app.Session.SetPendingEmail(ctx, ""); err != nil {
				app.Logger.Warn().Err(err).Msg("clear pending email")
			}

			if _, err := app.ensureBoard(ctx); err != nil {
				return err
			}
			app.printBoard()
			app.Logger.Debug().Str("email", verified).Msg("logged in")
			return nil
		},
	}
	cmd.Flags().String("email", "", "email the code was sent to (default: last login request)")
	return cmd
}

func newSessionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.API.Session(cmd.Context())
			if err != nil {
				return err
			}
			if !status.Authenticated {
				app.API.SetSessionCookie("")
				app.out.Println(notSignedIn)
				return nil
			}
			app.out.Println("Logged in as " + status.Email)
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session; your saved tickers are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.API.Logout(cmd.Context())
			app.API.SetSessionCookie("")
			app.Tiles.ClearForLogout()
			if err != nil {
				return reportAPIError(app, err)
			}
			app.out.Println(notSignedIn)
			return nil
		},
	}
}

// reportAPIError shows err in the status area. A 401 also drops the session.
func reportAPIError(app *App, err error) error {
	if errors.Is(err, api.ErrAuthRequired) {
		app.Tiles.ClearForLogout()
		app.API.SetSessionCookie("")
		app.out.Error("Session expired. Please log in again.")
		return &ReportedError{Err: err}
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		app.out.Error(apiErr.Message)
		return &ReportedError{Err: err}
	}
	return err
}
