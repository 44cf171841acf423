package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tramnet.mpk.org/internal/transit"
)

var ErrNoSuchStop = errors.New("no such stop")

// StopChoice is one entry of the stop menu.
type StopChoice struct {
	Line int
	ID   int
	Name string
}

// TramChoice is one entry of the tram menu.
type TramChoice struct {
	Index int
	ID    int
	Tram  transit.Tram
}

// Session tracks what one user has subscribed to so it can leave cleanly.
type Session struct {
	registry transit.Registry
	user     transit.User

	mu    sync.Mutex
	stops []transit.Stop
	trams []transit.Tram
}

func NewSession(registry transit.Registry, user transit.User) *Session {
	return &Session{registry: registry, user: user}
}

// StopChoices lists every line's stops in line order, numbering lines from 1.
// A stop on several lines is listed once per line.
func (s *Session) StopChoices(ctx context.Context) ([]StopChoice, error) {
	lines, err := s.registry.Lines(ctx)
	if err != nil {
		return nil, err
	}
	var choices []StopChoice
	for i, line := range lines {
		stops, err := line.Stops(ctx)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return nil, err
		}
		for _, stop := range stops {
			id, err := stop.ID(ctx)
			if err != nil {
				return nil, err
			}
			name, err := stop.Name(ctx)
			if err != nil {
				return nil, err
			}
			choices = append(choices, StopChoice{Line: i + 1, ID: id, Name: name})
		}
	}
	return choices, nil
}

// TramChoices lists the trams of every line.
func (s *Session) TramChoices(ctx context.Context) ([]TramChoice, error) {
	lines, err := s.registry.Lines(ctx)
	if err != nil {
		return nil, err
	}
	var choices []TramChoice
	for _, line := range lines {
		trams, err := line.Trams(ctx)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return nil, err
		}
		for _, tram := range trams {
			id, err := tram.ID(ctx)
			if err != nil {
				if transit.IsUnreachable(err) {
					continue
				}
				return nil, err
			}
			choices = append(choices, TramChoice{Index: len(choices), ID: id, Tram: tram})
		}
	}
	return choices, nil
}

// SubscribeStop registers the user on the stop with id and returns its name.
func (s *Session) SubscribeStop(ctx context.Context, id int) (string, error) {
	stop, found, err := s.registry.Stop(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("stop %d: %w", id, ErrNoSuchStop)
	}
	name, err := stop.Name(ctx)
	if err != nil {
		return "", err
	}
	if err := stop.RegisterUser(ctx, s.user); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.stops = append(s.stops, stop)
	s.mu.Unlock()
	return name, nil
}

func (s *Session) SubscribeTram(ctx context.Context, tram transit.Tram) error {
	if err := tram.RegisterUser(ctx, s.user); err != nil {
		return err
	}
	s.mu.Lock()
	s.trams = append(s.trams, tram)
	s.mu.Unlock()
	return nil
}

// Close unregisters the user from everything it subscribed to. Peers that
// are gone are skipped.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	stops, trams := s.stops, s.trams
	s.stops, s.trams = nil, nil
	s.mu.Unlock()

	var errs []error
	for _, tram := range trams {
		if err := tram.UnregisterUser(ctx, s.user); err != nil && !transit.IsUnreachable(err) {
			errs = append(errs, err)
		}
	}
	for _, stop := range stops {
		if err := stop.UnregisterUser(ctx, s.user); err != nil && !transit.IsUnreachable(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
