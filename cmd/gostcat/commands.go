package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/pkg/mirror"
)

// run opens a session, calls fn, and closes the session.
func run(cmd *cobra.Command, opts *rootOptions, fn func(s *session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search catalog records, falling back to the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				result := s.domain.Lookup.Search(cmd.Context(), strings.Join(args, " "))
				return s.out.result(result)
			})
		},
	}
}

func newReferenceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "reference <query>",
		Aliases: []string{"tnved"},
		Short:   "Search the TN VED reference table by code or name",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				matches := s.domain.Reference.Search(cmd.Context(), strings.Join(args, " "))
				return s.out.references(matches)
			})
		},
	}
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <code> [value]",
		Short: "Evaluate whether the technical regulation applies to a product code",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) == 2 {
				value = args[1]
			}
			return run(cmd, opts, func(s *session) error {
				return s.out.decision(s.domain.Compliance.Check(cmd.Context(), strings.TrimSpace(args[0]), value))
			})
		},
	}
}

type syncOptions struct {
	NoSync bool
}

func (o *syncOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.NoSync, "no-sync", false, "skip publishing the catalog to the remote mirror")
}

// publish pushes the current snapshot to the mirror unless disabled.
// Mirror failures are reported in the outcome, never as command errors.
func (o *syncOptions) publish(cmd *cobra.Command, s *session) (*mirror.Outcome, error) {
	if o.NoSync {
		return nil, nil
	}
	content, err := s.domain.Records.Snapshot(cmd.Context())
	if err != nil {
		return nil, err
	}
	out := s.infra.Mirror.Push(cmd.Context(), content)
	return &out, nil
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var (
		sync syncOptions
		mark string
		text string
	)

	cmd := &cobra.Command{
		Use:   "add <key>",
		Short: "Add a record or replace the record with the same key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				entry, err := s.domain.Records.Create(cmd.Context(), records.CreateCommand{
					Key:  args[0],
					Mark: mark,
					Text: text,
				})
				if err != nil {
					return err
				}
				out, err := sync.publish(cmd, s)
				if err != nil {
					return err
				}
				return s.out.entry(entry, out)
			})
		},
	}

	cmd.Flags().StringVar(&mark, "mark", "", "material or product mark")
	cmd.Flags().StringVar(&text, "text", "", "record description")
	sync.bind(cmd)

	return cmd
}

func newRemoveCommand(opts *rootOptions) *cobra.Command {
	var sync syncOptions

	cmd := &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				if err := s.domain.Records.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				out, err := sync.publish(cmd, s)
				if err != nil {
					return err
				}
				return s.out.removed(args[0], out)
			})
		},
	}

	sync.bind(cmd)
	return cmd
}

func newSyncCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Publish the current catalog to the remote mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				content, err := s.domain.Records.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				return s.out.outcome(s.infra.Mirror.Push(cmd.Context(), content))
			})
		},
	}
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the state of the catalog, reference data, mirror, and assistant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				return s.out.status(s.domain.Lookup.Status(cmd.Context()))
			})
		},
	}
}
