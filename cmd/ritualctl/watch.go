package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/altar-backend/internal/client"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/internal/watchdog"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	var (
		interval time.Duration
		follow   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Count down the active invocation and banish it when it expires",
		Long: `watch polls the active invocation and banishes it with reason EXPIRED
once its deadline has passed. With --follow (the default) it also listens to
the server's change stream so invocations made elsewhere are picked up
immediately. Stop it with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval > 0 {
				opts.cfg.Watchdog.Interval = interval
			}
			return runWatch(cmd, opts, follow)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (overrides watchdog.interval)")
	cmd.Flags().BoolVar(&follow, "follow", true, "refresh on server change events")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *rootOptions, follow bool) error {
	out := cmd.OutOrStdout()
	shadow := client.NewShadow(opts.log, opts.clock, opts.client)

	wcfg := opts.cfg.Watchdog
	dog := watchdog.New(opts.log, opts.clock, shadow, shadow, watchdog.Options{
		Interval:       wcfg.Interval,
		SettleDelay:    wcfg.SettleDelay,
		RequestTimeout: wcfg.RequestTimeout,
		OnStatus: func(st watchdog.Status) {
			writeStatus(out, opts.clock.Now(), st)
		},
	})

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return dog.Run(ctx) })
	if follow {
		g.Go(func() error {
			return shadow.Follow(ctx, func(a *domain.ActiveInvocation) {
				if a == nil {
					fmt.Fprintf(out, "%s  change: nothing invoked\n", opts.clock.Now().Format(time.TimeOnly))
					return
				}
				fmt.Fprintf(out, "%s  change: %s invoked\n", opts.clock.Now().Format(time.TimeOnly), a.State.SubjectID)
			})
		})
	}
	return g.Wait()
}

func writeStatus(w io.Writer, now time.Time, st watchdog.Status) {
	ts := now.Format(time.TimeOnly)
	switch {
	case st.SubjectID == "":
		fmt.Fprintf(w, "%s  nothing invoked\n", ts)
	case st.Banishing:
		fmt.Fprintf(w, "%s  %s expired, banishing\n", ts, st.SubjectID)
	default:
		fmt.Fprintf(w, "%s  %s: %s left\n", ts, st.SubjectID, formatRemaining(st.Remaining))
	}
}
