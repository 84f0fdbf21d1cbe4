// Command xanadium is a terminal chat client with locally persisted
// history, plus the small backend it talks to.
//
// Usage:
//
//	xanadium                          open the chat TUI
//	xanadium ask "hello" [--image f]  send one message and print the reply
//	xanadium history list|show|delete|export
//	xanadium serve [--addr :8080]     run the chat endpoint
//
// Settings come from XANADIUM_* environment variables, optionally loaded
// from a .env file, and can be overridden with flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "xanadium: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loadDotenv(".env"); err != nil {
		return err
	}
	cfg, err := parseConfig(environ())
	if err != nil {
		return err
	}
	a := &app{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	return newRootCmd(a).ExecuteContext(ctx)
}
