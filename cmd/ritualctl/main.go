// Command ritualctl is the command-line client of the ritual API. Besides
// one-shot commands it runs the expiry watchdog ("ritualctl watch"), which
// banishes the active invocation once its deadline has passed.
//
// Exit codes: 0 = success, 1 = error, 2 = usage error, 3 = offering on cooldown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		stop()
		os.Exit(exitCode(err))
	}
}
