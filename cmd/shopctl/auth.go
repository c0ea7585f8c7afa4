package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhartig/shopfront/internal/domain"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			res := app.manager.Login(cmd.Context(), domain.LoginRequest{Email: email, Password: password})
			if err := actionErr(res); err != nil {
				return err
			}

			snap := app.manager.Snapshot()
			fmt.Printf("Logged in as %s (%s)\n", snap.User.Name, snap.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			res := app.manager.Register(cmd.Context(), domain.RegisterRequest{Email: email, Password: password, Name: name})
			if err := actionErr(res); err != nil {
				return err
			}

			snap := app.manager.Snapshot()
			fmt.Printf("Registered and logged in as %s (%s)\n", snap.User.Name, snap.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session and stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			app.manager.Logout(cmd.Context())
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			snap := app.manager.Snapshot()
			if !snap.IsAuthenticated {
				fmt.Println("Not logged in")
				return nil
			}
			return printJSON(snap.User)
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a fresh token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			app.manager.RefreshAuth(cmd.Context())
			if app.manager.Snapshot().IsAuthenticated {
				fmt.Println("Session refreshed")
			} else {
				fmt.Println("Session expired, please log in again")
			}
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the account profile",
	}

	var name string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update the display name",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			res := app.manager.UpdateProfile(cmd.Context(), domain.UpdateProfileRequest{Name: name})
			if err := actionErr(res); err != nil {
				return err
			}
			return printJSON(app.manager.Snapshot().User)
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")
	update.MarkFlagRequired("name")

	cmd.AddCommand(update)
	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			res := app.client.Health(cmd.Context())
			if !res.Ok() {
				return fmt.Errorf("health check failed: %s", res.Err.Message)
			}
			return printJSON(res.Data)
		},
	}
}
