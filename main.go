package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pagegrab/pagegrab/cmd"
)

func main() {
	// Interrupts cancel the context; the sequencer finishes the in-flight
	// page before honoring it, so the target app is never left mid-dialog.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
