package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tramnet.mpk.org/internal/console"
	"tramnet.mpk.org/internal/transit"
)

type clientFlags struct {
	peer  peerFlags
	stops []int
	trams []int
}

func newClientCmd() *cobra.Command {
	var f clientFlags

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Subscribe to stops and trams and print their updates",
		Long: `Hosts a user that prints every update it receives. With --stop or --tram
the client subscribes right away and prints until interrupted; otherwise an
interactive menu picks what to subscribe to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()
			return runClient(ctx, cmd, f)
		},
	}
	f.peer.register(cmd)
	cmd.Flags().IntSliceVar(&f.stops, "stop", nil, "Stop ids to subscribe to")
	cmd.Flags().IntSliceVar(&f.trams, "tram", nil, "Tram ids to subscribe to")
	return cmd
}

func runClient(ctx context.Context, cmd *cobra.Command, f clientFlags) error {
	logger := loggerFor(cmd)
	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()
	p, err := startPeer(serveCtx, f.peer, logger)
	if err != nil {
		return err
	}

	color := colorEnabled(cmd)
	printer := console.NewPrinter(cmd.OutOrStdout(), color)
	p.node.Host(printer)
	session := console.NewSession(p.registry, printer)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := session.Close(closeCtx); err != nil {
			logger.Warn("failed to unregister", "error", err)
		}
	}()

	if err := subscribeFromFlags(ctx, session, printer, f); err != nil {
		return err
	}

	if len(f.stops) > 0 || len(f.trams) > 0 {
		<-ctx.Done()
	} else {
		menu := &console.Menu{Session: session, Printer: printer, Theme: console.Theme(color)}
		if err := menu.Run(ctx); err != nil {
			return err
		}
	}

	stopServing()
	return p.wait()
}

func subscribeFromFlags(ctx context.Context, session *console.Session, printer *console.Printer, f clientFlags) error {
	for _, id := range f.stops {
		name, err := session.SubscribeStop(ctx, id)
		if err != nil {
			return fmt.Errorf("register to stop %d: %w", id, err)
		}
		printer.Println("Registered to stop: " + name)
	}
	if len(f.trams) == 0 {
		return nil
	}

	choices, err := session.TramChoices(ctx)
	if err != nil {
		return fmt.Errorf("list trams: %w", err)
	}
	for _, id := range f.trams {
		tram, ok := findTram(choices, id)
		if !ok {
			return fmt.Errorf("no tram with id %d", id)
		}
		if err := session.SubscribeTram(ctx, tram); err != nil {
			return fmt.Errorf("register to tram %d: %w", id, err)
		}
		printer.Println(fmt.Sprintf("Registered to tram ID: %d", id))
	}
	return nil
}

// findTram returns the first listed tram with id.
func findTram(choices []console.TramChoice, id int) (transit.Tram, bool) {
	for _, c := range choices {
		if c.ID == id {
			return c.Tram, true
		}
	}
	return nil, false
}
