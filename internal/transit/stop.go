package transit

import (
	"context"
	"log/slog"
	"sync"
)

// StopActor is a fixed location. Its line membership and arrivals board are
// derived from the registry on every call.
type StopActor struct {
	identity Identity
	id       int
	name     string
	registry Registry
	logger   *slog.Logger
	notifier broadcaster

	mu    sync.Mutex
	users subscriberList
}

// NewStop creates a stop with an id from the bootstrap IDGenerator.
func NewStop(id int, name string, registry Registry, opts Options) *StopActor {
	return &StopActor{
		identity: newIdentity(KindStop),
		id:       id,
		name:     name,
		registry: registry,
		logger:   opts.logger("stop").With(slog.Int("stop_id", id)),
		notifier: opts.broadcaster("stop"),
	}
}

func (s *StopActor) Identity() Identity { return s.identity }

func (s *StopActor) ID(ctx context.Context) (int, error) { return s.id, nil }

func (s *StopActor) Name(ctx context.Context) (string, error) { return s.name, nil }

// Lines returns the registry's lines whose stop sequence contains this stop,
// in registry order.
func (s *StopActor) Lines(ctx context.Context) ([]Line, error) {
	all, err := s.registry.Lines(ctx)
	if err != nil {
		return nil, err
	}
	var lines []Line
	for _, line := range all {
		stops, err := line.Stops(ctx)
		if err != nil {
			if IsUnreachable(err) {
				continue
			}
			return nil, err
		}
		for _, stop := range stops {
			if SameActor(stop, s) {
				lines = append(lines, line)
				break
			}
		}
	}
	return lines, nil
}

// Arrivals lists one entry per schedule item of every tram on every line
// through this stop that targets this stop. Order is line, then tram, then
// schedule; a tram visiting the stop twice yields two entries.
func (s *StopActor) Arrivals(ctx context.Context) ([]Arrival, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, err
	}
	arrivals := []Arrival{}
	for _, line := range lines {
		trams, err := line.Trams(ctx)
		if err != nil {
			if IsUnreachable(err) {
				continue
			}
			return nil, err
		}
		for _, tram := range trams {
			schedule, err := tram.Schedule(ctx)
			if err != nil {
				if IsUnreachable(err) {
					s.logger.Debug("skipping unreachable tram", slog.String("tram", tram.Identity().Key))
					continue
				}
				return nil, err
			}
			for _, item := range schedule {
				if SameActor(item.Stop, s) {
					arrivals = append(arrivals, Arrival{Tram: tram, Time: item.Time})
				}
			}
		}
	}
	return arrivals, nil
}

func (s *StopActor) RegisterUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.add(user)
	s.logger.Info("user registered", slog.String("user", user.Identity().Key))
	return nil
}

func (s *StopActor) UnregisterUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.users.remove(user); n > 0 {
		s.logger.Info("user left", slog.String("user", user.Identity().Key), slog.Int("entries", n))
	}
	return nil
}

// Subscribers returns the current subscriber list, duplicates included.
func (s *StopActor) Subscribers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.snapshot()
}

// NotifySubscribers pushes the current arrivals board to every subscriber.
// It is driven by the hosting process, not exposed remotely. Unreachable
// subscribers are skipped and stay registered.
func (s *StopActor) NotifySubscribers(ctx context.Context) (BroadcastResult, error) {
	users := s.Subscribers()
	if len(users) == 0 {
		return BroadcastResult{}, nil
	}
	arrivals, err := s.Arrivals(ctx)
	if err != nil {
		return BroadcastResult{}, err
	}
	return s.notifier.deliver(ctx, "stop_updated", users, func(ctx context.Context, u User) error {
		return u.StopUpdated(ctx, s, arrivals)
	}), nil
}
