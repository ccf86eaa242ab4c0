package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/printdeck/internal/app"
	"github.com/five82/printdeck/internal/config"
	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/projector"
)

type rootFlags struct {
	configPath string
	prefsPath  string
	poll       int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "printdeck",
		Short:         "Terminal dashboard for a Karmen 3D printer fleet",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				PollEvery:  flags.poll,
			})
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.config/printdeck/config.toml)")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default ~/.config/printdeck/prefs.toml)")
	root.Flags().IntVar(&flags.poll, "poll", 0, "printer refresh interval in seconds (defaults to poll_interval)")

	root.AddCommand(
		newStatusCmd(flags),
		newHeartbeatCmd(flags),
		newAddPrinterCmd(flags),
		newRenamePrinterCmd(flags),
		newGcodesCmd(flags),
		newPrintCmd(flags),
		newSettingsCmd(flags),
	)
	return root
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print one line per printer and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := loadClient(flags.configPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			printers, err := client.FetchPrinters(ctx, karmen.DefaultPrinterFields...)
			if err != nil {
				return fmt.Errorf("fetch printers: %w", err)
			}
			return writeStatus(cmd.OutOrStdout(), printers)
		},
	}
}

func newHeartbeatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Check once whether the backend responds; exit 1 when it does not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := loadClient(flags.configPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			if client.CheckLiveness(ctx) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is responding.\n", client.BaseURL())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backend is not responding.")
			return exitError{code: 1}
		},
	}
}

func loadClient(configPath string) (*karmen.Client, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	client, err := karmen.NewClient(cfg.BackendURL, karmen.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("init karmen client: %w", err)
	}
	return client, cfg, nil
}

// writeStatus renders printers as an aligned table.
func writeStatus(out io.Writer, printers []karmen.Printer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tIP\tSTATE\tTEMPERATURE\tJOB\tPROGRESS")
	for _, p := range printers {
		fmt.Fprintln(tw, statusLine(projector.Project(p)))
	}
	return tw.Flush()
}

func statusLine(v projector.PrinterView) string {
	progress := "-"
	job := "-"
	if v.HasJob {
		job = blankDash(v.JobTitle)
		progress = v.Progress.Completion + "%"
		if v.Progress.HasLabel() {
			progress += " " + v.Progress.Label + " left"
		}
	}
	state := "-"
	if v.State != "" {
		state = string(v.State)
	}
	return strings.Join([]string{
		v.Name,
		v.Key,
		state,
		blankDash(v.Temperature),
		job,
		progress,
	}, "\t")
}

// blankDash swaps the display placeholder for a dash in plain text output.
func blankDash(s string) string {
	if strings.TrimSpace(strings.ReplaceAll(s, projector.Placeholder, "")) == "" {
		return "-"
	}
	return s
}
