package transit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TramState is the lifecycle position of a tram.
type TramState int

const (
	TramIdle TramState = iota
	TramRunning
	TramFinished
)

func (s TramState) String() string {
	switch s {
	case TramIdle:
		return "idle"
	case TramRunning:
		return "running"
	case TramFinished:
		return "finished"
	default:
		return fmt.Sprintf("TramState(%d)", int(s))
	}
}

// withdrawTimeout bounds the line removal performed after cancellation.
const withdrawTimeout = 5 * time.Second

// TramActor runs one line's schedule. Lifecycle: Start, BuildSchedule, then
// Advance (directly or through Run) until the schedule is empty. The tram
// leaves its line exactly once, on exhaustion or on Withdraw.
type TramActor struct {
	identity Identity
	hop      int
	logger   *slog.Logger
	notifier broadcaster

	mu        sync.Mutex
	id        int
	line      Line
	departure TimeOfDay
	schedule  []ScheduleItem
	state     TramState
	built     bool
	left      bool
	users     subscriberList
}

func NewTram(opts Options) *TramActor {
	return &TramActor{
		identity: newIdentity(KindTram),
		hop:      opts.hopMinutes(),
		logger:   opts.logger("tram"),
		notifier: opts.broadcaster("tram"),
	}
}

func (t *TramActor) Identity() Identity { return t.identity }

// Start assigns the tram's id, line and departure time and joins the line.
func (t *TramActor) Start(ctx context.Context, id int, line Line, departure TimeOfDay) error {
	if !departure.Valid() {
		return fmt.Errorf("invalid departure time %v", departure)
	}
	t.mu.Lock()
	if t.line != nil || t.state != TramIdle {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.id = id
	t.line = line
	t.departure = departure
	t.mu.Unlock()

	if err := line.AddTram(ctx, t); err != nil {
		t.mu.Lock()
		t.line = nil
		t.mu.Unlock()
		return fmt.Errorf("join line: %w", err)
	}
	t.logger.Info("tram started", slog.Int("tram_id", id), slog.String("line", line.Identity().Key), slog.String("departure", departure.String()))
	return nil
}

// BuildSchedule reads the line's stops once and times each stop one hop
// after the previous one, starting from the departure time. An empty line
// finishes the tram immediately.
func (t *TramActor) BuildSchedule(ctx context.Context) error {
	t.mu.Lock()
	line, departure := t.line, t.departure
	switch {
	case line == nil:
		t.mu.Unlock()
		return ErrNotStarted
	case t.built:
		t.mu.Unlock()
		return ErrScheduleBuilt
	}
	t.mu.Unlock()

	stops, err := line.Stops(ctx)
	if err != nil {
		return fmt.Errorf("read line stops: %w", err)
	}
	schedule := make([]ScheduleItem, 0, len(stops))
	at := departure
	for _, stop := range stops {
		at = at.Advance(t.hop)
		schedule = append(schedule, ScheduleItem{Stop: stop, Time: at})
	}

	t.mu.Lock()
	if t.built || t.state == TramFinished {
		t.mu.Unlock()
		return ErrScheduleBuilt
	}
	t.built = true
	t.schedule = schedule
	leave := false
	if len(schedule) > 0 {
		t.state = TramRunning
	} else {
		t.state = TramFinished
		leave = t.markLeftLocked()
	}
	t.mu.Unlock()

	t.logger.Info("schedule built", slog.Int("stops", len(schedule)))
	if leave {
		return t.leaveLine(ctx, line)
	}
	return nil
}

// Advance notifies every subscriber of the current head stop, then pops it.
// When the schedule empties the tram finishes and leaves its line. Calling
// Advance on a finished tram returns ErrFinished.
func (t *TramActor) Advance(ctx context.Context) error {
	t.mu.Lock()
	switch t.state {
	case TramFinished:
		t.mu.Unlock()
		return ErrFinished
	case TramIdle:
		t.mu.Unlock()
		return ErrNotRunning
	}
	head := t.schedule[0]
	users := t.users.snapshot()
	logger := t.logger
	t.mu.Unlock()

	// Subscribers may call back into this tram, so no lock is held here.
	t.notifier.deliver(ctx, "tram_updated", users, func(ctx context.Context, u User) error {
		return u.TramUpdated(ctx, t, head.Stop)
	})

	t.mu.Lock()
	if t.state != TramRunning || len(t.schedule) == 0 {
		// Withdrawn while notifying.
		t.mu.Unlock()
		return nil
	}
	t.schedule = t.schedule[1:]
	remaining := len(t.schedule)
	leave := false
	line := t.line
	if remaining == 0 {
		t.state = TramFinished
		leave = t.markLeftLocked()
	}
	t.mu.Unlock()

	logger.Info("arrived at stop", slog.String("time", head.Time.String()), slog.Int("remaining", remaining))
	if leave {
		return t.leaveLine(ctx, line)
	}
	return nil
}

// Withdraw pulls the tram from service at once. It is idempotent and safe
// before Start.
func (t *TramActor) Withdraw(ctx context.Context) error {
	t.mu.Lock()
	line := t.line
	if line == nil {
		t.state = TramFinished
		t.mu.Unlock()
		return nil
	}
	t.state = TramFinished
	t.schedule = nil
	leave := t.markLeftLocked()
	t.mu.Unlock()

	if !leave {
		return nil
	}
	t.logger.Info("tram withdrawn")
	return t.leaveLine(ctx, line)
}

// Run advances immediately and then once per interval until the schedule
// is exhausted. When ctx is cancelled first, or interval is not positive,
// the tram withdraws before Run returns.
func (t *TramActor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return t.abort(ctx, fmt.Errorf("%w: got %v", ErrBadInterval, interval))
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := t.Advance(ctx)
		switch {
		case errors.Is(err, ErrFinished):
			return nil
		case err != nil && t.State() != TramFinished:
			return t.abort(ctx, err)
		case t.State() == TramFinished:
			return err
		}

		select {
		case <-ctx.Done():
			return t.abort(ctx, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (t *TramActor) abort(ctx context.Context, cause error) error {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), withdrawTimeout)
	defer cancel()
	if err := t.Withdraw(wctx); err != nil {
		return fmt.Errorf("withdraw after %v: %w", cause, err)
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return nil
	}
	return cause
}

// markLeftLocked reports whether the caller is the one that must remove the
// tram from its line. t.mu must be held.
func (t *TramActor) markLeftLocked() bool {
	if t.left {
		return false
	}
	t.left = true
	return true
}

func (t *TramActor) leaveLine(ctx context.Context, line Line) error {
	if err := line.RemoveTram(ctx, t); err != nil {
		t.logger.Error("failed to leave line", slog.String("error", err.Error()))
		return fmt.Errorf("leave line: %w", err)
	}
	t.logger.Info("tram left line", slog.String("line", line.Identity().Key))
	return nil
}

func (t *TramActor) State() TramState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *TramActor) ID(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id, nil
}

// Line returns the line the tram was started on, or nil.
func (t *TramActor) Line() Line {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line
}

// Schedule returns the remaining schedule, head first.
func (t *TramActor) Schedule(ctx context.Context) ([]ScheduleItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ScheduleItem, len(t.schedule))
	copy(out, t.schedule)
	return out, nil
}

// CurrentStop returns the schedule head, absent once finished.
func (t *TramActor) CurrentStop(ctx context.Context) (Stop, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.schedule) == 0 {
		return nil, false, nil
	}
	return t.schedule[0].Stop, true, nil
}

// StopTime looks stopID up in the remaining schedule. Stops that cannot be
// reached to read their id are skipped.
func (t *TramActor) StopTime(ctx context.Context, stopID int) (TimeOfDay, error) {
	schedule, _ := t.Schedule(ctx)
	for _, item := range schedule {
		id, err := item.Stop.ID(ctx)
		if err != nil {
			if IsUnreachable(err) {
				continue
			}
			return NoTime, err
		}
		if id == stopID {
			return item.Time, nil
		}
	}
	return NoTime, nil
}

func (t *TramActor) RegisterUser(ctx context.Context, user User) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users.add(user)
	t.logger.Info("user registered", slog.String("user", user.Identity().Key))
	return nil
}

func (t *TramActor) UnregisterUser(ctx context.Context, user User) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users.remove(user)
	return nil
}

// Subscribers returns the current subscriber list, duplicates included.
func (t *TramActor) Subscribers() []User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.users.snapshot()
}
