package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"tramnet.mpk.org/internal/gtfs"
	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/rpc"
	"tramnet.mpk.org/internal/transit"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: the configuration, the network this process hosts and
// the node that exposes it.
type Application struct {
	Config    Config
	Logger    *slog.Logger
	Node      *rpc.Node
	Network   *transit.Network
	Poller    *BoardPoller
	StartedAt time.Time
}

// New builds the network described by cfg and hosts its registry.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	topo, err := loadTopology(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := cfg.TransitOptions(logger)
	registry := transit.NewRegistry(cfg.RegistryName, opts)
	var ids transit.IDGenerator
	network, err := transit.Build(ctx, registry, &ids, topo, opts)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	node := rpc.NewNode(rpc.Config{
		Addr:   cfg.AdvertiseAddr(),
		Logger: logger,
	})
	node.Host(registry)

	logging.LogOperation(logger, "network_built",
		slog.String("registry", cfg.RegistryName),
		slog.Int("stops", len(network.Stops)),
		slog.Int("lines", len(network.Lines)))

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Node:      node,
		Network:   network,
		Poller:    NewBoardPoller(network.Stops, cfg.PollInterval, logger),
		StartedAt: time.Now(),
	}, nil
}

func loadTopology(ctx context.Context, cfg Config, logger *slog.Logger) (transit.Topology, error) {
	if cfg.GTFSSource != "" {
		topo, err := gtfs.LoadTopology(ctx, gtfs.Config{Source: cfg.GTFSSource, MaxLines: cfg.GTFSLines}, logger)
		if err != nil {
			return transit.Topology{}, fmt.Errorf("load gtfs topology: %w", err)
		}
		return topo, nil
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return transit.RandomTopology(rand.New(rand.NewSource(seed)), cfg.StopNames, cfg.LineSizes)
}

// DescribeLines renders each line of the application's registry.
func (app *Application) DescribeLines(ctx context.Context) ([]string, error) {
	return DescribeLines(ctx, app.Network.Registry)
}

// DescribeLines renders each line of registry as "Line N: a -> b -> c",
// numbered from 1.
func DescribeLines(ctx context.Context, registry transit.Registry) ([]string, error) {
	lines, err := registry.Lines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		stops, err := line.Stops(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(stops))
		for j, stop := range stops {
			if names[j], err = stop.Name(ctx); err != nil {
				return nil, err
			}
		}
		out = append(out, fmt.Sprintf("Line %d: %s", i+1, strings.Join(names, " -> ")))
	}
	return out, nil
}

// Trams lists every tram on every line, in registry order.
func (app *Application) Trams(ctx context.Context) ([]transit.Tram, error) {
	lines, err := app.Network.Registry.Lines(ctx)
	if err != nil {
		return nil, err
	}
	var trams []transit.Tram
	for _, line := range lines {
		lineTrams, err := line.Trams(ctx)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return nil, err
		}
		trams = append(trams, lineTrams...)
	}
	return trams, nil
}

// FindStop returns the network stop with id, or nil.
func (app *Application) FindStop(id int) *transit.StopActor {
	for _, stop := range app.Network.Stops {
		if sid, _ := stop.ID(context.Background()); sid == id {
			return stop
		}
	}
	return nil
}

func (app *Application) Shutdown() {
	if app.Poller != nil {
		app.Poller.Shutdown()
	}
}
