package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/xanadium"
	bt "github.com/fwojciec/xanadium/bubbletea"
	xhttp "github.com/fwojciec/xanadium/http"
	"github.com/spf13/cobra"
)

// app carries configuration and I/O shared by all commands.
type app struct {
	cfg    config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *log.Logger
	closer io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "xanadium",
		Short: "Chat with XanadiumAI from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The TUI owns the terminal, so it only logs to a file.
			fallback := a.stderr
			if cmd == cmd.Root() {
				fallback = io.Discard
			}
			logger, closer, err := newLogger(a.cfg.LogLevel, a.cfg.LogFile, fallback)
			if err != nil {
				return err
			}
			a.logger, a.closer = logger, closer
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.Endpoint, "endpoint", a.cfg.Endpoint, "chat endpoint base URL")
	f.StringVar(&a.cfg.Token, "token", a.cfg.Token, "bearer token for the chat endpoint")
	f.StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "directory holding the chat history")
	f.StringVar(&a.cfg.Store, "store", a.cfg.Store, "history backend: file or pebble")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")
	f.StringVar(&a.cfg.LogFile, "log-file", a.cfg.LogFile, "append logs to this file")

	root.AddCommand(newAskCmd(a), newHistoryCmd(a), newServeCmd(a))
	return root
}

// openController wires the configured store and endpoint client into a
// controller. The returned func releases the store.
func (a *app) openController() (*xanadium.Controller, *xhttp.Client, func() error, error) {
	store, closeStore, err := openStore(a.cfg.Store, a.cfg.DataDir, a.logger)
	if err != nil {
		return nil, nil, nil, err
	}
	client := xhttp.NewClient(a.cfg.Endpoint, xhttp.WithToken(a.cfg.Token), xhttp.WithLogger(a.logger))
	ctrl := xanadium.NewController(store, client, xanadium.WithLogger(a.logger))
	return ctrl, client, closeStore, nil
}

func runTUI(ctx context.Context, a *app) error {
	ctrl, client, closeStore, err := a.openController()
	if err != nil {
		return err
	}
	defer closeStore()

	m := bt.New(ctrl, bt.WithLogout(client.Logout))
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func newAskCmd(a *app) *cobra.Command {
	var imagePath string
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			}
			var image *xanadium.Attachment
			if imagePath != "" {
				att, err := xanadium.LoadAttachment(imagePath)
				if err != nil {
					return err
				}
				image = &att
			}

			ctrl, _, closeStore, err := a.openController()
			if err != nil {
				return err
			}
			defer closeStore()

			reply, err := ctrl.Send(cmd.Context(), text, image)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			if reply.Text == xanadium.ConnectionLostText {
				return errors.New("request failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "attach an image file")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat endpoint backed by Gemini or Anthropic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			responder, err := resolveResponder(ctx, a.cfg.Provider, a.cfg.Model, a.cfg.AnthropicKey, a.cfg.GeminiKey)
			if err != nil {
				return err
			}
			persona, err := loadPersona(a.cfg.Persona)
			if err != nil {
				return err
			}
			handler := xhttp.NewHandler(responder,
				xhttp.WithPersona(persona),
				xhttp.WithRequiredToken(a.cfg.Token),
				xhttp.WithHandlerLogger(a.logger),
			)
			return serve(ctx, a.cfg.Addr, handler, a.logger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.cfg.Addr, "addr", a.cfg.Addr, "listen address")
	f.StringVar(&a.cfg.Provider, "provider", a.cfg.Provider, "model provider: gemini or anthropic (auto-detected from API keys)")
	f.StringVar(&a.cfg.Model, "model", a.cfg.Model, "model ID (provider default if empty)")
	f.StringVar(&a.cfg.Persona, "persona", a.cfg.Persona, "persona prompt file")
	return cmd
}

// serve runs the handler until ctx ends, then shuts down gracefully.
func serve(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("serving", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}
