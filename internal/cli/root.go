// Package cli implements the contactbook command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	authapp "github.com/aradsms/contactbook/internal/auth_service/app"
	"github.com/aradsms/contactbook/internal/bootstrap"
	contactapp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/platform/config"
	"github.com/aradsms/contactbook/internal/platform/logger"
	weatherapp "github.com/aradsms/contactbook/internal/weather_service/app"
)

const appName = "contactbook"

type rootOptions struct {
	configFile string
	store      string
	sqlitePath string
	jsonOut    bool
	verbose    bool
}

// runtime holds what a command invocation builds lazily and tears down on exit.
type runtime struct {
	opts    rootOptions
	cfg     *config.Config
	logger  *slog.Logger
	stores  *bootstrap.Stores
	closers []func()
}

// NewRootCommand builds the contactbook command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Keep contacts, log in and check the weather from the terminal.",
		Long: `contactbook manages a personal contact list stored in SQLite (default),
PostgreSQL or memory, and bundles a small weather lookup.

Examples:
  contactbook contact add --name Alice --phone 0912 --email alice@example.com
  contactbook contact list --search ali
  contactbook weather Tehran
  contactbook tui`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&rt.opts.configFile, "config", "c", "", "config file (default: configs/config.defaults.yaml if present)")
	pf.StringVar(&rt.opts.store, "store", "", "store driver: sqlite, postgres or memory (overrides STORE_DRIVER)")
	pf.StringVar(&rt.opts.sqlitePath, "sqlite-path", "", "SQLite database file (overrides SQLITE_PATH)")
	pf.BoolVar(&rt.opts.jsonOut, "json", false, "print machine readable JSON")
	pf.BoolVarP(&rt.opts.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(
		newContactCommand(rt),
		newUserCommand(rt),
		newLoginCommand(rt),
		newWeatherCommand(rt),
		newTUICommand(rt),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, cancel := signalContext()
	defer cancel()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(appName, rt.opts.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rt.opts.store != "" {
		cfg.StoreDriver = rt.opts.store
	}
	if rt.opts.sqlitePath != "" {
		cfg.SQLitePath = rt.opts.sqlitePath
	}
	rt.cfg = cfg

	level := "warn"
	if rt.opts.verbose {
		level = "debug"
	}
	rt.logger = logger.NewWithWriter(cmd.ErrOrStderr(), level, "text")
	return nil
}

// run wraps a RunE so that whatever the command opened is released even when it fails.
func (rt *runtime) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer rt.close()
		return fn(cmd, args)
	}
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
	rt.stores = nil
}

func (rt *runtime) openStores(ctx context.Context) (*bootstrap.Stores, error) {
	if rt.stores != nil {
		return rt.stores, nil
	}
	s, err := bootstrap.OpenStores(ctx, rt.cfg, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.stores = s
	rt.closers = append(rt.closers, s.Close)
	return s, nil
}

func (rt *runtime) contactApp(ctx context.Context) (*contactapp.Application, error) {
	s, err := rt.openStores(ctx)
	if err != nil {
		return nil, err
	}
	events, closeEvents := bootstrap.NewEventPublisher(rt.cfg, appName, rt.logger)
	rt.closers = append(rt.closers, closeEvents)
	return contactapp.NewApplication(s.Contacts, events, rt.logger), nil
}

func (rt *runtime) authService(ctx context.Context) (*authapp.AuthService, error) {
	s, err := rt.openStores(ctx)
	if err != nil {
		return nil, err
	}
	return authapp.NewAuthService(s.Users, authapp.AuthConfig{
		JWTSecret:      rt.cfg.JWTSecret,
		JWTExpiryHours: rt.cfg.JWTExpiryHours,
	}, rt.logger), nil
}

func (rt *runtime) weatherService(ctx context.Context) *weatherapp.WeatherService {
	svc, cleanup := bootstrap.NewWeatherService(ctx, rt.cfg, rt.logger)
	rt.closers = append(rt.closers, cleanup)
	return svc
}

func (rt *runtime) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
