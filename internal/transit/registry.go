package transit

import (
	"context"
	"log/slog"
	"sync"
)

// RegistryActor is the directory of lines and the entry point for discovery.
type RegistryActor struct {
	identity Identity
	logger   *slog.Logger

	mu    sync.Mutex
	lines []Line
}

// NewRegistry creates a registry addressed by name, so that remote
// processes can reach it knowing only the service name.
func NewRegistry(name string, opts Options) *RegistryActor {
	return &RegistryActor{
		identity: Identity{Kind: KindRegistry, Key: name},
		logger:   opts.logger("registry"),
	}
}

func (r *RegistryActor) Identity() Identity { return r.identity }

// Lines returns every registered line in registration order.
func (r *RegistryActor) Lines(ctx context.Context) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out, nil
}

// AddLine appends line. Duplicates are the caller's responsibility.
func (r *RegistryActor) AddLine(ctx context.Context, line Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	return nil
}

// RemoveLine removes the first line with the same identity, if any.
func (r *RegistryActor) RemoveLine(ctx context.Context, line Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines {
		if SameActor(l, line) {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			r.logger.Info("line removed", slog.String("line", line.Identity().Key))
			return nil
		}
	}
	return nil
}

// Stop scans lines in registration order and each line's stops in sequence
// order, returning the first stop whose id matches. Unreachable lines and
// stops are skipped.
func (r *RegistryActor) Stop(ctx context.Context, id int) (Stop, bool, error) {
	lines, err := r.Lines(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, line := range lines {
		stops, err := line.Stops(ctx)
		if err != nil {
			if IsUnreachable(err) {
				r.logger.Warn("skipping unreachable line",
					slog.String("line", line.Identity().Key), slog.String("error", err.Error()))
				continue
			}
			return nil, false, err
		}
		for _, stop := range stops {
			stopID, err := stop.ID(ctx)
			if err != nil {
				if IsUnreachable(err) {
					continue
				}
				return nil, false, err
			}
			if stopID == id {
				return stop, true, nil
			}
		}
	}
	return nil, false, nil
}
