// SPDX-License-Identifier: MIT

// Command bazictl evaluates charts against the pattern registry, fits
// transfer matrices from labelled samples and manages stored patterns.
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

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "bazictl:", err)
		stop()
		os.Exit(1)
	}
}
