package gtfs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jamespfennell/gtfs"

	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/transit"
)

// ErrNoLines is returned when a feed yields no route with stop times.
var ErrNoLines = errors.New("feed has no routes with scheduled stops")

// LoadTopology reads the feed named by config and turns it into a network
// topology.
func LoadTopology(ctx context.Context, config Config, logger *slog.Logger) (transit.Topology, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "gtfs_topology"))

	start := time.Now()
	staticData, err := loadGTFSData(ctx, config, logger)
	if err != nil {
		return transit.Topology{}, err
	}

	topo, err := TopologyFromStatic(staticData, config.MaxLines)
	if err != nil {
		return transit.Topology{}, err
	}

	logging.LogOperation(logger, "gtfs_topology_loaded",
		slog.String("source", config.Source),
		slog.Int("routes", len(staticData.Routes)),
		slog.Int("lines", len(topo.Lines)),
		slog.Int("stops", len(topo.StopNames)),
		slog.Duration("duration", time.Since(start)))
	return topo, nil
}

// TopologyFromStatic builds one line per route, in feed order, from the stop
// sequence of the route's first trip that has stop times. Only stops used by
// some line become network stops, numbered in order of first use.
func TopologyFromStatic(staticData *gtfs.Static, maxLines int) (transit.Topology, error) {
	firstTrip := make(map[string]*gtfs.ScheduledTrip)
	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		if trip.Route == nil || len(trip.StopTimes) == 0 {
			continue
		}
		if _, seen := firstTrip[trip.Route.Id]; !seen {
			firstTrip[trip.Route.Id] = trip
		}
	}

	var topo transit.Topology
	index := make(map[string]int)
	for _, route := range staticData.Routes {
		if maxLines > 0 && len(topo.Lines) >= maxLines {
			break
		}
		trip, ok := firstTrip[route.Id]
		if !ok {
			continue
		}
		line := make([]int, 0, len(trip.StopTimes))
		for _, st := range trip.StopTimes {
			if st.Stop == nil {
				continue
			}
			idx, known := index[st.Stop.Id]
			if !known {
				idx = len(topo.StopNames)
				index[st.Stop.Id] = idx
				topo.StopNames = append(topo.StopNames, stopName(st.Stop))
			}
			line = append(line, idx)
		}
		topo.Lines = append(topo.Lines, line)
	}

	if len(topo.Lines) == 0 {
		return transit.Topology{}, ErrNoLines
	}
	return topo, nil
}

func stopName(stop *gtfs.Stop) string {
	if stop.Name != "" {
		return stop.Name
	}
	return stop.Id
}
