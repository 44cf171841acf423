package rpc

import (
	"context"

	"tramnet.mpk.org/internal/transit"
)

type registryProxy struct{ proxy }

func (r *registryProxy) Lines(ctx context.Context) ([]transit.Line, error) {
	var refs []Ref
	if err := r.call(ctx, "Lines", nil, &refs); err != nil {
		return nil, err
	}
	out := make([]transit.Line, len(refs))
	for i, ref := range refs {
		out[i] = r.node.Line(ref)
	}
	return out, nil
}

func (r *registryProxy) AddLine(ctx context.Context, line transit.Line) error {
	return r.call(ctx, "AddLine", lineArgs{Line: r.node.RefOf(line)}, nil)
}

func (r *registryProxy) RemoveLine(ctx context.Context, line transit.Line) error {
	return r.call(ctx, "RemoveLine", lineArgs{Line: r.node.RefOf(line)}, nil)
}

func (r *registryProxy) Stop(ctx context.Context, id int) (transit.Stop, bool, error) {
	var res stopLookup
	if err := r.call(ctx, "Stop", idArgs{ID: id}, &res); err != nil {
		return nil, false, err
	}
	stop, ok := r.node.decodeStopLookup(res)
	return stop, ok, nil
}

type lineProxy struct{ proxy }

func (l *lineProxy) Stops(ctx context.Context) ([]transit.Stop, error) {
	var refs []Ref
	if err := l.call(ctx, "Stops", nil, &refs); err != nil {
		return nil, err
	}
	out := make([]transit.Stop, len(refs))
	for i, ref := range refs {
		out[i] = l.node.Stop(ref)
	}
	return out, nil
}

func (l *lineProxy) Trams(ctx context.Context) ([]transit.Tram, error) {
	var refs []Ref
	if err := l.call(ctx, "Trams", nil, &refs); err != nil {
		return nil, err
	}
	out := make([]transit.Tram, len(refs))
	for i, ref := range refs {
		out[i] = l.node.Tram(ref)
	}
	return out, nil
}

func (l *lineProxy) AddTram(ctx context.Context, tram transit.Tram) error {
	return l.call(ctx, "AddTram", tramArgs{Tram: l.node.RefOf(tram)}, nil)
}

func (l *lineProxy) RemoveTram(ctx context.Context, tram transit.Tram) error {
	return l.call(ctx, "RemoveTram", tramArgs{Tram: l.node.RefOf(tram)}, nil)
}

type stopProxy struct{ proxy }

func (s *stopProxy) ID(ctx context.Context) (int, error) {
	var id int
	err := s.call(ctx, "ID", nil, &id)
	return id, err
}

func (s *stopProxy) Name(ctx context.Context) (string, error) {
	var name string
	err := s.call(ctx, "Name", nil, &name)
	return name, err
}

func (s *stopProxy) Lines(ctx context.Context) ([]transit.Line, error) {
	var refs []Ref
	if err := s.call(ctx, "Lines", nil, &refs); err != nil {
		return nil, err
	}
	out := make([]transit.Line, len(refs))
	for i, ref := range refs {
		out[i] = s.node.Line(ref)
	}
	return out, nil
}

func (s *stopProxy) Arrivals(ctx context.Context) ([]transit.Arrival, error) {
	var wire []arrivalWire
	if err := s.call(ctx, "Arrivals", nil, &wire); err != nil {
		return nil, err
	}
	return s.node.decodeArrivals(wire), nil
}

func (s *stopProxy) RegisterUser(ctx context.Context, user transit.User) error {
	return s.call(ctx, "RegisterUser", userArgs{User: s.node.RefOf(user)}, nil)
}

func (s *stopProxy) UnregisterUser(ctx context.Context, user transit.User) error {
	return s.call(ctx, "UnregisterUser", userArgs{User: s.node.RefOf(user)}, nil)
}

type tramProxy struct{ proxy }

func (t *tramProxy) ID(ctx context.Context) (int, error) {
	var id int
	err := t.call(ctx, "ID", nil, &id)
	return id, err
}

func (t *tramProxy) Schedule(ctx context.Context) ([]transit.ScheduleItem, error) {
	var wire []scheduleItemWire
	if err := t.call(ctx, "Schedule", nil, &wire); err != nil {
		return nil, err
	}
	return t.node.decodeSchedule(wire), nil
}

func (t *tramProxy) CurrentStop(ctx context.Context) (transit.Stop, bool, error) {
	var res stopLookup
	if err := t.call(ctx, "CurrentStop", nil, &res); err != nil {
		return nil, false, err
	}
	stop, ok := t.node.decodeStopLookup(res)
	return stop, ok, nil
}

func (t *tramProxy) StopTime(ctx context.Context, stopID int) (transit.TimeOfDay, error) {
	at := transit.NoTime
	if err := t.call(ctx, "StopTime", idArgs{ID: stopID}, &at); err != nil {
		return transit.NoTime, err
	}
	return at, nil
}

func (t *tramProxy) RegisterUser(ctx context.Context, user transit.User) error {
	return t.call(ctx, "RegisterUser", userArgs{User: t.node.RefOf(user)}, nil)
}

func (t *tramProxy) UnregisterUser(ctx context.Context, user transit.User) error {
	return t.call(ctx, "UnregisterUser", userArgs{User: t.node.RefOf(user)}, nil)
}

type userProxy struct{ proxy }

func (u *userProxy) TramUpdated(ctx context.Context, tram transit.Tram, stop transit.Stop) error {
	return u.call(ctx, "TramUpdated", tramUpdatedArgs{Tram: u.node.RefOf(tram), Stop: u.node.RefOf(stop)}, nil)
}

func (u *userProxy) StopUpdated(ctx context.Context, stop transit.Stop, arrivals []transit.Arrival) error {
	return u.call(ctx, "StopUpdated", stopUpdatedArgs{Stop: u.node.RefOf(stop), Arrivals: u.node.encodeArrivals(arrivals)}, nil)
}

var (
	_ transit.Registry = (*registryProxy)(nil)
	_ transit.Line     = (*lineProxy)(nil)
	_ transit.Stop     = (*stopProxy)(nil)
	_ transit.Tram     = (*tramProxy)(nil)
	_ transit.User     = (*userProxy)(nil)
)
