package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tramnet.mpk.org/internal/app"
	"tramnet.mpk.org/internal/console"
	"tramnet.mpk.org/internal/transit"
)

type tramFlags struct {
	peer     peerFlags
	settings console.TramSettings
	interval time.Duration
	hop      int
}

func newTramCmd() *cobra.Command {
	var f tramFlags

	cmd := &cobra.Command{
		Use:   "tram",
		Short: "Run one tram along a line of the network",
		Long: `Joins a line, times its stops from the departure time and advances one
stop per interval until the end of the line. Missing --id, --line or
--start values are asked for interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()
			return runTram(ctx, cmd, f)
		},
	}
	f.peer.register(cmd)
	cmd.Flags().StringVar(&f.settings.ID, "id", "", "Tram id")
	cmd.Flags().StringVar(&f.settings.Line, "line", "", "Line number, starting at 1")
	cmd.Flags().StringVar(&f.settings.Start, "start", "", "Departure time, HH:MM")
	cmd.Flags().DurationVar(&f.interval, "interval", 2*time.Second, "Real time spent between stops")
	cmd.Flags().IntVar(&f.hop, "hop", transit.DefaultHopMinutes, "Minutes between consecutive stops")
	return cmd
}

// tramPlan is the validated form of the tram settings.
type tramPlan struct {
	id        int
	line      int
	departure transit.TimeOfDay
}

func parseTramPlan(s console.TramSettings, lineCount int) (tramPlan, error) {
	if err := console.ValidateTramID(s.ID); err != nil {
		return tramPlan{}, err
	}
	if err := console.LineValidator(lineCount)(s.Line); err != nil {
		return tramPlan{}, err
	}
	departure, err := transit.ParseTimeOfDay(s.Start)
	if err != nil {
		return tramPlan{}, err
	}
	id, _ := strconv.Atoi(strings.TrimSpace(s.ID))
	line, _ := strconv.Atoi(strings.TrimSpace(s.Line))
	return tramPlan{id: id, line: line, departure: departure}, nil
}

// validate checks the flags that need no registry, before the tram joins
// anything.
func (f tramFlags) validate() error {
	var errs []error
	if f.interval <= 0 {
		errs = append(errs, fmt.Errorf("interval %v must be positive", f.interval))
	}
	if f.hop <= 0 {
		errs = append(errs, fmt.Errorf("hop %d must be positive", f.hop))
	}
	return errors.Join(errs...)
}

func runTram(ctx context.Context, cmd *cobra.Command, f tramFlags) error {
	if err := f.validate(); err != nil {
		return err
	}
	logger := loggerFor(cmd)
	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()
	p, err := startPeer(serveCtx, f.peer, logger)
	if err != nil {
		return err
	}

	described, err := app.DescribeLines(ctx, p.registry)
	if err != nil {
		return fmt.Errorf("list lines: %w", err)
	}
	if len(described) == 0 {
		return fmt.Errorf("registry %q has no lines", f.peer.name)
	}
	if f.settings.Missing() {
		if err := console.AskTramSettings(&f.settings, described, console.Theme(colorEnabled(cmd))); err != nil {
			return err
		}
	}
	plan, err := parseTramPlan(f.settings, len(described))
	if err != nil {
		return err
	}

	lines, err := p.registry.Lines(ctx)
	if err != nil {
		return err
	}
	if plan.line > len(lines) {
		return fmt.Errorf("line %d no longer exists", plan.line)
	}

	tram := transit.NewTram(transit.Options{Logger: logger, HopMinutes: f.hop})
	p.node.Host(tram)
	if err := tram.Start(ctx, plan.id, lines[plan.line-1], plan.departure); err != nil {
		return err
	}
	if err := tram.BuildSchedule(ctx); err != nil {
		_ = tram.Withdraw(context.WithoutCancel(ctx))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tram %d running %s\n", plan.id, described[plan.line-1])
	logger.Info("tram running",
		slog.Int("tram_id", plan.id),
		slog.Int("line", plan.line),
		slog.String("departure", plan.departure.String()))

	runErr := tram.Run(ctx, f.interval)
	fmt.Fprintf(out, "Tram %d finished\n", plan.id)

	stopServing()
	if err := p.wait(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
