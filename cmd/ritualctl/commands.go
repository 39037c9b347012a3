package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/altar-backend/internal/api"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// subjectArg requires exactly one subject argument.
func subjectArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return &usageError{err}
	}
	return nil
}

func (o *rootOptions) printer(cmd *cobra.Command) printer {
	return printer{format: o.format, w: cmd.OutOrStdout()}
}

func (o *rootOptions) printActive(cmd *cobra.Command, a *domain.ActiveInvocation) error {
	resp := api.ActiveResponse{Active: api.FromActive(a)}
	return o.printer(cmd).print(resp, func(w io.Writer) error {
		return writeActive(w, resp.Active)
	})
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active invocation and the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := opts.client.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(ov, func(w io.Writer) error {
				fmt.Fprint(w, "active: ")
				if err := writeActive(w, ov.Active); err != nil {
					return err
				}
				fmt.Fprintln(w)
				return writeRoster(w, ov.Roster)
			})
		},
	}
}

func newInvokeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <subject>",
		Short: "Invoke a subject, displacing the current one",
		Args:  subjectArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.client.Invoke(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printActive(cmd, a)
		},
	}
}

func newBanishCommand(opts *rootOptions) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "banish <subject>",
		Short: "End the invocation of a subject",
		Args:  subjectArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.BanishReason(strings.ToUpper(reason))
			if !r.IsValid() {
				return &usageError{fmt.Errorf("invalid --reason %q", reason)}
			}
			a, err := opts.client.Banish(cmd.Context(), args[0], r)
			if err != nil {
				return err
			}
			return opts.printActive(cmd, a)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", string(domain.BanishReasonManual), "MANUAL or EXPIRED")

	return cmd
}

func newExtendCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "extend <subject>",
		Aliases: []string{"offer"},
		Short:   "Make an offering, pushing the deadline 6 hours forward",
		Args:    subjectArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.client.Extend(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printActive(cmd, a)
		},
	}
}

func newWishlistCommand(opts *rootOptions) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "wishlist <subject>",
		Short: "Put a subject on the roster, or take it off with --remove",
		Args:  subjectArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := opts.client.SetWishlisted(cmd.Context(), args[0], !remove)
			if err != nil {
				return err
			}
			resp := api.RosterResponse{Roster: roster}
			return opts.printer(cmd).print(resp, func(w io.Writer) error {
				return writeRoster(w, resp.Roster)
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "take the subject off the roster")

	return cmd
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <subject>",
		Short: "List past invocation sessions of a subject",
		Args:  subjectArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return &usageError{fmt.Errorf("--limit must be >= 0")}
			}
			h, err := opts.client.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(h, func(w io.Writer) error {
				return writeHistory(w, h)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of sessions (server default when 0)")

	return cmd
}
