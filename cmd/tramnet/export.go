package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tramnet.mpk.org/internal/console"
	"tramnet.mpk.org/internal/exporter"
	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/rpc"
)

const dateLayout = "2006-01-02"

type exportFlags struct {
	registry string
	name     string
	tram     int
	output   string
	date     string
}

func newExportCmd() *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a tram's remaining schedule to an ICS file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()
			return runExport(ctx, cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.registry, "registry", "localhost:4061", "Address of the server hosting the registry")
	cmd.Flags().StringVar(&f.name, "name", "SIP", "Registry service name")
	cmd.Flags().IntVar(&f.tram, "tram", 0, "Tram id to export")
	cmd.Flags().StringVarP(&f.output, "output", "o", "schedule.ics", "Output file path")
	cmd.Flags().StringVar(&f.date, "date", "", "Service day, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("tram")
	return cmd
}

func serviceDay(date string, now time.Time) (time.Time, error) {
	if date == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	day, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", date)
	}
	return day, nil
}

func runExport(ctx context.Context, cmd *cobra.Command, f exportFlags) (err error) {
	logger := loggerFor(cmd)
	day, err := serviceDay(f.date, time.Now())
	if err != nil {
		return err
	}

	// Export only calls out, so the node is never served.
	node := rpc.NewNode(rpc.Config{Logger: logger})
	registry, err := node.Discover(ctx, f.registry, f.name)
	if err != nil {
		return err
	}

	choices, err := console.NewSession(registry, nil).TramChoices(ctx)
	if err != nil {
		return fmt.Errorf("list trams: %w", err)
	}
	tram, ok := findTram(choices, f.tram)
	if !ok {
		return fmt.Errorf("no tram with id %d", f.tram)
	}

	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer logging.HandleDeferredError(&err, file.Close, logger, "close_ics_file")

	n, err := exporter.GenerateICS(ctx, tram, day, file)
	if err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d stops of tram %d to %s\n", n, f.tram, f.output)
	return nil
}
