package transit

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// recordingUser captures every notification it receives.
type recordingUser struct {
	identity    Identity
	unreachable bool

	mu          sync.Mutex
	tramUpdates []Stop
	stopUpdates [][]Arrival
}

func newRecordingUser() *recordingUser {
	return &recordingUser{identity: Identity{Kind: KindUser, Key: uuid.NewString()}}
}

func (u *recordingUser) Identity() Identity { return u.identity }

func (u *recordingUser) TramUpdated(ctx context.Context, tram Tram, stop Stop) error {
	if u.unreachable {
		return fmt.Errorf("dial user: %w", ErrUnreachable)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tramUpdates = append(u.tramUpdates, stop)
	return nil
}

func (u *recordingUser) StopUpdated(ctx context.Context, stop Stop, arrivals []Arrival) error {
	if u.unreachable {
		return fmt.Errorf("dial user: %w", ErrUnreachable)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stopUpdates = append(u.stopUpdates, arrivals)
	return nil
}

func (u *recordingUser) stopUpdateCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.stopUpdates)
}

func (u *recordingUser) tramUpdateCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.tramUpdates)
}

// recordingLine wraps a LineActor and counts removals.
type recordingLine struct {
	*LineActor
	mu      sync.Mutex
	removed int
}

func (l *recordingLine) RemoveTram(ctx context.Context, tram Tram) error {
	l.mu.Lock()
	l.removed++
	l.mu.Unlock()
	return l.LineActor.RemoveTram(ctx, tram)
}

func (l *recordingLine) removals() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removed
}

// deadLine is a line whose host has gone away.
type deadLine struct{ identity Identity }

func newDeadLine() *deadLine {
	return &deadLine{identity: Identity{Kind: KindLine, Key: uuid.NewString()}}
}

func (l *deadLine) Identity() Identity { return l.identity }
func (l *deadLine) Stops(ctx context.Context) ([]Stop, error) {
	return nil, fmt.Errorf("connect: %w", ErrUnreachable)
}
func (l *deadLine) Trams(ctx context.Context) ([]Tram, error) {
	return nil, fmt.Errorf("connect: %w", ErrUnreachable)
}
func (l *deadLine) AddTram(ctx context.Context, tram Tram) error {
	return fmt.Errorf("connect: %w", ErrUnreachable)
}
func (l *deadLine) RemoveTram(ctx context.Context, tram Tram) error {
	return fmt.Errorf("connect: %w", ErrUnreachable)
}

// deadTram is a tram that vanished without leaving its line.
type deadTram struct{ identity Identity }

func (t *deadTram) Identity() Identity { return t.identity }
func (t *deadTram) ID(ctx context.Context) (int, error) {
	return 0, ErrUnreachable
}
func (t *deadTram) Schedule(ctx context.Context) ([]ScheduleItem, error) {
	return nil, ErrUnreachable
}
func (t *deadTram) CurrentStop(ctx context.Context) (Stop, bool, error) {
	return nil, false, ErrUnreachable
}
func (t *deadTram) StopTime(ctx context.Context, stopID int) (TimeOfDay, error) {
	return NoTime, ErrUnreachable
}
func (t *deadTram) RegisterUser(ctx context.Context, user User) error   { return ErrUnreachable }
func (t *deadTram) UnregisterUser(ctx context.Context, user User) error { return ErrUnreachable }

// testNetwork builds a registry with stops named after names and the given
// lines of stop indices.
func testNetwork(t interface{ Fatalf(string, ...any) }, names []string, lines ...[]int) *Network {
	reg := NewRegistry("SIP", Options{})
	var ids IDGenerator
	n, err := Build(context.Background(), reg, &ids, Topology{StopNames: names, Lines: lines}, Options{})
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	return n
}
