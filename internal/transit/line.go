package transit

import (
	"context"
	"log/slog"
	"sync"
)

// LineActor holds a fixed stop sequence and the trams running on it.
type LineActor struct {
	identity Identity
	stops    []Stop
	logger   *slog.Logger

	mu    sync.Mutex
	trams []Tram
}

// NewLine creates a line over stops. The sequence may repeat a stop and is
// never resized afterwards.
func NewLine(stops []Stop, opts Options) *LineActor {
	seq := make([]Stop, len(stops))
	copy(seq, stops)
	return &LineActor{
		identity: newIdentity(KindLine),
		stops:    seq,
		logger:   opts.logger("line"),
	}
}

func (l *LineActor) Identity() Identity { return l.identity }

func (l *LineActor) Stops(ctx context.Context) ([]Stop, error) {
	out := make([]Stop, len(l.stops))
	copy(out, l.stops)
	return out, nil
}

func (l *LineActor) Trams(ctx context.Context) ([]Tram, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Tram, len(l.trams))
	copy(out, l.trams)
	return out, nil
}

// AddTram appends tram. It does not deduplicate; a tram adds itself once
// from Start.
func (l *LineActor) AddTram(ctx context.Context, tram Tram) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trams = append(l.trams, tram)
	l.logger.Info("tram added", slog.String("tram", tram.Identity().Key), slog.Int("trams", len(l.trams)))
	return nil
}

// RemoveTram removes the first entry with tram's identity. No-op if absent.
func (l *LineActor) RemoveTram(ctx context.Context, tram Tram) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.trams {
		if SameActor(t, tram) {
			l.trams = append(l.trams[:i], l.trams[i+1:]...)
			l.logger.Info("tram removed", slog.String("tram", tram.Identity().Key), slog.Int("trams", len(l.trams)))
			return nil
		}
	}
	return nil
}
