package transit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
)

// IDGenerator hands out monotonically increasing stop ids, starting at 0.
// The bootstrap owns one generator and threads it through construction.
type IDGenerator struct {
	next atomic.Int64
}

func (g *IDGenerator) Next() int {
	return int(g.next.Add(1) - 1)
}

// Topology is a network description: stop names, and each line as indices
// into StopNames.
type Topology struct {
	StopNames []string
	Lines     [][]int
}

// Validate checks that every line index points at a stop.
func (t Topology) Validate() error {
	if len(t.StopNames) == 0 {
		return errors.New("topology has no stops")
	}
	for i, line := range t.Lines {
		for _, idx := range line {
			if idx < 0 || idx >= len(t.StopNames) {
				return fmt.Errorf("line %d: stop index %d out of range", i, idx)
			}
		}
	}
	return nil
}

// RandomTopology builds one line per entry of sizes, each sampling stops
// uniformly at random with replacement.
func RandomTopology(rng *rand.Rand, stopNames []string, sizes []int) (Topology, error) {
	if len(stopNames) == 0 {
		return Topology{}, errors.New("no stop names")
	}
	topo := Topology{StopNames: append([]string(nil), stopNames...)}
	for _, size := range sizes {
		if size < 0 {
			return Topology{}, fmt.Errorf("negative line size %d", size)
		}
		line := make([]int, size)
		for i := range line {
			line[i] = rng.Intn(len(stopNames))
		}
		topo.Lines = append(topo.Lines, line)
	}
	return topo, nil
}

// Network is the set of actors built from a Topology.
type Network struct {
	Registry *RegistryActor
	Stops    []*StopActor
	Lines    []*LineActor
}

// Build creates the stops and lines of topo and registers every line on
// registry in order.
func Build(ctx context.Context, registry *RegistryActor, ids *IDGenerator, topo Topology, opts Options) (*Network, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	n := &Network{Registry: registry}
	for _, name := range topo.StopNames {
		n.Stops = append(n.Stops, NewStop(ids.Next(), name, registry, opts))
	}
	for _, seq := range topo.Lines {
		stops := make([]Stop, len(seq))
		for i, idx := range seq {
			stops[i] = n.Stops[idx]
		}
		line := NewLine(stops, opts)
		if err := registry.AddLine(ctx, line); err != nil {
			return nil, err
		}
		n.Lines = append(n.Lines, line)
	}
	return n, nil
}
