package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/xanadium"
	xjson "github.com/fwojciec/xanadium/json"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage saved chats",
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryShowCmd(a),
		newHistoryDeleteCmd(a),
		newHistoryExportCmd(a),
	)
	return cmd
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(fn func(xanadium.SessionStore) error) error {
	store, closeStore, err := openStore(a.cfg.Store, a.cfg.DataDir, a.logger)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func newHistoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved chats, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store xanadium.SessionStore) error {
				h := store.Load()
				if len(h) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved chats.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUPDATED\tMESSAGES\tTITLE")
				for _, s := range h {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", s.ID, s.Timestamp, len(s.Messages), s.Title)
				}
				return tw.Flush()
			})
		},
	}
}

func newHistoryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one saved chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store xanadium.SessionStore) error {
				s, ok := store.Load().Find(id)
				if !ok {
					return fmt.Errorf("session %d: %w", id, xanadium.ErrSessionNotFound)
				}
				writeSession(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one saved chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store xanadium.SessionStore) error {
				s, ok := store.Load().Find(id)
				if !ok {
					return fmt.Errorf("session %d: %w", id, xanadium.ErrSessionNotFound)
				}
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", s.Title)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if _, err := store.Delete(id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Chat deleted.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newHistoryExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the whole history as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store xanadium.SessionStore) error {
				data, err := xjson.MarshalHistory(store.Load())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q", s)
	}
	return id, nil
}

func writeSession(w io.Writer, s xanadium.Session) {
	fmt.Fprintf(w, "%s (%s)\n", s.Title, s.Timestamp)
	for _, m := range s.Messages {
		fmt.Fprintln(w)
		var label string
		switch m.Role {
		case xanadium.RoleUser:
			label = "You"
		case xanadium.RoleAssistant:
			label = "XanadiumAI"
		default:
			label = string(m.Role)
		}
		if m.HasImage() {
			label += " " + describeImage(m.Image)
		}
		fmt.Fprintf(w, "%s:\n%s\n", label, m.Text)
	}
}

// describeImage summarizes a stored data URL as "[image/png, 1.2 KiB]".
func describeImage(dataURL string) string {
	att, err := xanadium.ParseDataURL(dataURL)
	if err != nil {
		return "[image: unreadable]"
	}
	return fmt.Sprintf("[%s, %s]", att.MimeType, formatSize(len(att.Data)))
}

func formatSize(n int) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}

// confirm asks a y/n question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
