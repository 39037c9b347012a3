package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/altar-backend/internal/app"
	"github.com/heartmarshall/altar-backend/internal/client"
	"github.com/heartmarshall/altar-backend/internal/config"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitCooldown = 3
)

var validFormats = []string{"text", "json", "yaml"}

// usageError marks errors caused by bad flags or arguments.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// rootOptions holds the global flags and the state built from them.
type rootOptions struct {
	format  string
	baseURL string
	token   string
	userID  string
	verbose bool

	cfg    *config.ClientConfig
	log    *slog.Logger
	clock  clockwork.Clock
	client *client.Client
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{clock: clockwork.NewRealClock()}

	cmd := &cobra.Command{
		Use:           "ritualctl",
		Short:         "Invoke, extend and banish deities",
		Long:          "ritualctl talks to the ritual API and can watch the active invocation until it expires.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides client.base_url)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "access token (overrides client.token)")
	cmd.PersistentFlags().StringVar(&opts.userID, "user", "", "user id the token belongs to")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newStatusCommand(opts),
		newInvokeCommand(opts),
		newBanishCommand(opts),
		newExtendCommand(opts),
		newWishlistCommand(opts),
		newHistoryCommand(opts),
		newWatchCommand(opts),
		newTokenCommand(opts),
		newVersionCommand(opts),
	)

	return cmd
}

// setup validates the global flags, loads the client config and builds the
// logger and the API client.
func (o *rootOptions) setup() error {
	if !slices.Contains(validFormats, o.format) {
		return &usageError{fmt.Errorf("invalid format %q: must be one of %v", o.format, validFormats)}
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if o.baseURL != "" {
		cfg.Client.BaseURL = o.baseURL
	}
	if o.token != "" {
		cfg.Client.Token = o.token
	}
	o.cfg = cfg

	logCfg := cfg.Log
	logCfg.Format = "text"
	if o.verbose {
		logCfg.Level = "debug"
	}
	o.log = app.NewLogger(logCfg)

	var clientOpts []client.Option
	if o.userID != "" {
		id, err := uuid.Parse(o.userID)
		if err != nil {
			return &usageError{fmt.Errorf("invalid --user: %w", err)}
		}
		clientOpts = append(clientOpts, client.WithUserID(id))
	}

	o.client, err = client.New(cfg.Client, o.log, clientOpts...)
	return err
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		return exitUsage
	case errors.Is(err, domain.ErrCooldownActive):
		return exitCooldown
	default:
		return exitFailure
	}
}

// describe turns domain errors into user-facing messages.
func describe(err error) string {
	var ce *domain.CooldownError
	switch {
	case errors.As(err, &ce):
		return fmt.Sprintf("the offering is on cooldown, try again in %d hours", ce.RemainingHours)
	case errors.Is(err, domain.ErrUnauthorized):
		return "not authorized: pass --token or set CLIENT_TOKEN"
	case errors.Is(err, domain.ErrNotFound):
		return "unknown subject"
	case errors.Is(err, domain.ErrPersistence):
		return "the server could not reach its storage, retry later"
	default:
		return err.Error()
	}
}
