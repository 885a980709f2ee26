package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/server"
)

type flags struct {
	port     string
	host     string
	driver   string
	path     string
	apps     string
	logLevel string
	dev      bool
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "webdesk",
		Short: "WebDesk desktop shell backend",
		Long: `WebDesk serves the window manager, settings and mock applications of the
browser desktop over HTTP and streams state changes over a WebSocket.

Configuration is read from defaults, then the TOML file named by CONFIG_FILE,
then environment variables. Flags override all of them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.port, "port", "", "server port (default 8000)")
	cmd.Flags().StringVar(&f.host, "host", "", "listen host (default 0.0.0.0)")
	cmd.Flags().StringVar(&f.driver, "store", "", "store driver: memory or sqlite")
	cmd.Flags().StringVar(&f.path, "store-path", "", "sqlite database path")
	cmd.Flags().StringVar(&f.apps, "apps", "", "YAML app registry file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "development mode (console logs, debug level)")
	return cmd
}

// apply overlays the flags that were set on the command line
func (f flags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed
	if set("port") {
		cfg.Server.Port = f.port
	}
	if set("host") {
		cfg.Server.Host = f.host
	}
	if set("store") {
		cfg.Store.Driver = f.driver
	}
	if set("store-path") {
		cfg.Store.Path = f.path
	}
	if set("apps") {
		cfg.Desktop.AppsFile = f.apps
	}
	if set("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if set("dev") && f.dev {
		cfg.Logging.Development = true
		if !set("log-level") {
			cfg.Logging.Level = "debug"
		}
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config) error {
	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if err := srv.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
