package main

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/gostcat/internal/api"
	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/internal/infrastructure"
)

var validFormats = []string{"text", "json"}

type rootOptions struct {
	Verbose bool
	Format  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gostcat",
		Short:         "Query and maintain the GOST standards catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(
		newSearchCommand(opts),
		newReferenceCommand(opts),
		newCheckCommand(opts),
		newAddCommand(opts),
		newRemoveCommand(opts),
		newSyncCommand(opts),
		newStatusCommand(opts),
	)

	return cmd
}

// session is the command-line runtime: infrastructure plus the domain
// systems the API module builds, without the HTTP surface.
type session struct {
	infra  *infrastructure.Infrastructure
	domain *api.Domain
	out    *formatter
}

// openSession loads configuration and builds the domain. The mirror worker
// is not started: commands that mutate the catalog push inline so the
// outcome can be reported before the process exits.
func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	infra, err := infrastructure.NewWithLogger(cfg, logger)
	if err != nil {
		return nil, err
	}

	if infra.Database != nil {
		if err := infra.Database.Start(infra.Lifecycle); err != nil {
			return nil, fmt.Errorf("database start failed: %w", err)
		}
	}
	infra.Lifecycle.WaitForStartup()
	if infra.Database != nil && !infra.Database.Ready() {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		return nil, fmt.Errorf("database is not reachable")
	}

	return &session{
		infra:  infra,
		domain: api.NewDomain(api.NewRuntime(cfg, infra)),
		out:    newFormatter(opts.Format, cmd.OutOrStdout()),
	}, nil
}

func (s *session) Close() error {
	return s.infra.Lifecycle.Shutdown(5 * time.Second)
}
