package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/printdeck/internal/karmen"
)

func newAddPrinterCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add-printer <ip[:port]> <name>",
		Short: "Register a printer with the backend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate before touching the config so typos fail fast.
			if err := karmen.ValidatePrinterAddress(args[0]); err != nil {
				return err
			}
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				if err := client.AddPrinter(ctx, args[0], args[1]); err != nil {
					if karmen.IsConflict(err) {
						return fmt.Errorf("printer %s is already registered", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s).\n", strings.TrimSpace(args[1]), strings.TrimSpace(args[0]))
				return nil
			})
		},
	}
}

func newRenamePrinterCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-printer <ip> <name>",
		Short: "Change the display name of a printer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				if err := client.RenamePrinter(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s.\n", strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
				return nil
			})
		},
	}
}

func newGcodesCmd(flags *rootFlags) *cobra.Command {
	var query karmen.GcodeQuery
	cmd := &cobra.Command{
		Use:   "gcodes",
		Short: "List the G-code library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				list, err := client.FetchGcodes(ctx, query)
				if err != nil {
					return fmt.Errorf("fetch gcodes: %w", err)
				}
				return writeGcodes(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVar(&query.Display, "filter", "", "only files whose display name contains this text")
	cmd.Flags().StringVar(&query.OrderBy, "order-by", "-uploaded", "sort field, prefix with - for descending")
	cmd.Flags().StringVar(&query.StartWith, "start-with", "", "id to continue listing from")
	cmd.Flags().IntVar(&query.Limit, "limit", 0, "page size (default 15)")

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a file from the G-code library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGcodeID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				if err := client.DeleteGcode(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed gcode %d.\n", id)
				return nil
			})
		},
	})
	return cmd
}

func newPrintCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "print <gcode-id> <printer-ip>",
		Short: "Start printing a G-code file on a printer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGcodeID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				if err := client.PrintGcode(ctx, id, args[1]); err != nil {
					if karmen.IsConflict(err) {
						return fmt.Errorf("printer %s is busy", args[1])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Print of gcode %d started on %s.\n", id, strings.TrimSpace(args[1]))
				return nil
			})
		},
	}
}

func newSettingsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show backend settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				settings, err := client.FetchSettings(ctx)
				if err != nil {
					return fmt.Errorf("fetch settings: %w", err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tVALUE")
				for _, s := range settings {
					fmt.Fprintf(tw, "%s\t%s\n", s.Key, s.ValueLabel())
				}
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key=value>...",
		Short: "Change backend settings; values are JSON or plain text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseSettingArgs(args)
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), flags, func(ctx context.Context, client *karmen.Client) error {
				if err := client.ChangeSettings(ctx, settings); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d setting(s).\n", len(settings))
				return nil
			})
		},
	})
	return cmd
}

// withClient runs fn with a configured client and a request-scoped timeout.
func withClient(parent context.Context, flags *rootFlags, fn func(context.Context, *karmen.Client) error) error {
	client, cfg, err := loadClient(flags.configPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(parent, cfg.RequestTimeout)
	defer cancel()
	return fn(ctx, client)
}

func writeGcodes(out io.Writer, list karmen.GcodeListResponse) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tUPLOADED")
	for _, g := range list.Items {
		uploaded := "-"
		if t := g.ParsedUploaded(); !t.IsZero() {
			uploaded = t.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", g.ID, g.Title(), g.Size, uploaded)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if list.Next != "" {
		fmt.Fprintf(out, "more: %s\n", list.Next)
	}
	return nil
}

func parseGcodeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid gcode id %q", raw)
	}
	return id, nil
}

func parseSettingArgs(args []string) ([]karmen.Setting, error) {
	settings := make([]karmen.Setting, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		settings = append(settings, karmen.Setting{Key: k, Val: karmen.ParseSettingValue(v)})
	}
	return settings, nil
}
