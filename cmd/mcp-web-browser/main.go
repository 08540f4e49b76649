// Package main provides the mcp-web-browser server: a Model Context Protocol
// server over stdio that drives one shared headless browser session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/mcp-web-browser/pkg/logging"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

func main() {
	// Cancelling the context stops the server; the session is cleaned up on
	// the way out of serve.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logging.Shutdown()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
