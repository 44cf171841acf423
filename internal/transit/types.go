// Package transit implements the tram network engine: the registry of
// lines, stops that aggregate arrivals, trams that consume a schedule, and
// the push notifications delivered to subscribed users.
//
// Every actor operation may be a remote call. Errors returned by actor
// methods are connectivity failures (see IsUnreachable) or contract
// violations; a lookup that finds nothing is never an error.
package transit

import (
	"context"
	"fmt"
)

// Kind names the type of an actor behind a reference.
type Kind string

const (
	KindRegistry Kind = "registry"
	KindLine     Kind = "line"
	KindStop     Kind = "stop"
	KindTram     Kind = "tram"
	KindUser     Kind = "user"
)

// Identity is the stable key of an actor instance. Two references denote
// the same actor exactly when their identities are equal.
type Identity struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s", id.Kind, id.Key)
}

// Object is anything addressable by identity.
type Object interface {
	Identity() Identity
}

// Registry is the directory of lines.
type Registry interface {
	Object
	Lines(ctx context.Context) ([]Line, error)
	AddLine(ctx context.Context, line Line) error
	RemoveLine(ctx context.Context, line Line) error
	// Stop finds a stop by its numeric id across all lines.
	Stop(ctx context.Context, id int) (Stop, bool, error)
}

// Line is a fixed sequence of stops and the trams currently running on it.
type Line interface {
	Object
	Stops(ctx context.Context) ([]Stop, error)
	Trams(ctx context.Context) ([]Tram, error)
	AddTram(ctx context.Context, tram Tram) error
	RemoveTram(ctx context.Context, tram Tram) error
}

// Stop is a fixed location that aggregates arrivals from every line through it.
type Stop interface {
	Object
	ID(ctx context.Context) (int, error)
	Name(ctx context.Context) (string, error)
	Lines(ctx context.Context) ([]Line, error)
	Arrivals(ctx context.Context) ([]Arrival, error)
	RegisterUser(ctx context.Context, user User) error
	UnregisterUser(ctx context.Context, user User) error
}

// Tram consumes its schedule head-first and notifies its subscribers.
type Tram interface {
	Object
	ID(ctx context.Context) (int, error)
	Schedule(ctx context.Context) ([]ScheduleItem, error)
	CurrentStop(ctx context.Context) (Stop, bool, error)
	// StopTime returns NoTime when stopID is not in the remaining schedule.
	StopTime(ctx context.Context, stopID int) (TimeOfDay, error)
	RegisterUser(ctx context.Context, user User) error
	UnregisterUser(ctx context.Context, user User) error
}

// User receives push notifications from stops and trams.
type User interface {
	Object
	TramUpdated(ctx context.Context, tram Tram, stop Stop) error
	StopUpdated(ctx context.Context, stop Stop, arrivals []Arrival) error
}

// ScheduleItem is one planned stop of a tram.
type ScheduleItem struct {
	Stop Stop
	Time TimeOfDay
}

// Arrival is a tram expected at a stop. It is derived on demand, never stored.
type Arrival struct {
	Tram Tram
	Time TimeOfDay
}

// SameActor reports whether a and b refer to the same actor.
func SameActor(a, b Object) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Identity() == b.Identity()
}
