// shopctl is a thin command-line frontend over the storefront client core.
// It wires the gateway client, credential store, and session manager
// together, runs one action per invocation, and prints the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhartig/shopfront/internal/api"
	"github.com/mhartig/shopfront/internal/config"
	"github.com/mhartig/shopfront/internal/credstore"
	"github.com/mhartig/shopfront/internal/logging"
	"github.com/mhartig/shopfront/internal/session"
	"github.com/mhartig/shopfront/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "shopctl",
	Short:        "Storefront API client",
	Long:         "shopctl talks to the storefront API: account management, authenticated sessions, and catalog operations.",
	SilenceUsage: true,
}

func init() {
	info := version.Get()
	rootCmd.Version = info.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("shopctl %s (%s, built %s)\n", info.Version, info.Commit, info.BuildTime))

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newProductsCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newHealthCmd())
}

// app bundles the wired core for one CLI invocation.
type app struct {
	cfg     *config.Config
	client  *api.Client
	manager *session.Manager
}

// newApp loads config, initializes logging, wires the core, and hydrates the
// session from the credential store.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.APIBaseURL, api.Options{
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RateLimit,
	})

	manager := session.NewManager(client, store)
	manager.Bootstrap(ctx)

	return &app{cfg: cfg, client: client, manager: manager}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (credstore.Store, error) {
	if cfg.RedisURL != "" {
		return credstore.NewRedisStore(ctx, cfg.RedisURL)
	}

	path := cfg.CredentialsFile
	if path == "" {
		var err error
		path, err = credstore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return credstore.NewFileStore(path)
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// actionErr converts a failed session action into a CLI error, listing
// field-level details when the server provided them.
func actionErr(res session.ActionResult) error {
	if res.Success {
		return nil
	}
	msg := res.Error
	for field, detail := range res.Details {
		msg += fmt.Sprintf("\n  %s: %s", field, detail)
	}
	return fmt.Errorf("%s", msg)
}
