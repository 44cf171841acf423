package transit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultHopMinutes is the simulated travel time between consecutive stops.
const DefaultHopMinutes = 10

// Options carries the ambient settings shared by all actors of a process.
type Options struct {
	Logger *slog.Logger
	// NotifyTimeout bounds a single push notification. Zero leaves the
	// bound to the transport.
	NotifyTimeout time.Duration
	// HopMinutes overrides DefaultHopMinutes when positive.
	HopMinutes int
}

func (o Options) logger(component string) *slog.Logger {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}

func (o Options) hopMinutes() int {
	if o.HopMinutes > 0 {
		return o.HopMinutes
	}
	return DefaultHopMinutes
}

func (o Options) broadcaster(component string) broadcaster {
	return broadcaster{logger: o.logger(component), timeout: o.NotifyTimeout}
}

func newIdentity(kind Kind) Identity {
	return Identity{Kind: kind, Key: uuid.NewString()}
}
