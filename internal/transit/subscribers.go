package transit

import (
	"context"
	"log/slog"
	"time"

	"tramnet.mpk.org/internal/logging"
)

// subscriberList is an ordered multiset of users. The owning actor's mutex
// guards it.
type subscriberList struct {
	users []User
}

// add appends user. Registering the same user twice yields two entries and
// therefore two notifications per pass.
func (s *subscriberList) add(user User) {
	s.users = append(s.users, user)
}

// remove drops every entry with user's identity and returns how many were
// dropped. Removing an absent user is a no-op.
func (s *subscriberList) remove(user User) int {
	kept := s.users[:0]
	removed := 0
	for _, u := range s.users {
		if SameActor(u, user) {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	for i := len(kept); i < len(s.users); i++ {
		s.users[i] = nil
	}
	s.users = kept
	return removed
}

func (s *subscriberList) snapshot() []User {
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// BroadcastResult summarises one notify pass.
type BroadcastResult struct {
	Delivered int
	Failed    int
}

// broadcaster delivers a notification to each user in order. A failing or
// slow user never stops delivery to the rest; failed deliveries are dropped
// for this pass and the user stays subscribed.
type broadcaster struct {
	logger  *slog.Logger
	timeout time.Duration
}

func (b broadcaster) deliver(ctx context.Context, event string, users []User, send func(context.Context, User) error) BroadcastResult {
	var res BroadcastResult
	for _, user := range users {
		if ctx.Err() != nil {
			res.Failed += len(users) - res.Delivered - res.Failed
			break
		}
		callCtx, cancel := b.callContext(ctx)
		err := send(callCtx, user)
		cancel()
		if err != nil {
			res.Failed++
			attrs := []slog.Attr{
				slog.String("event", event),
				slog.String("user", user.Identity().Key),
				slog.Bool("unreachable", IsUnreachable(err)),
			}
			if b.logger != nil {
				b.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped",
					append(attrs, slog.String("error", err.Error()))...)
			}
			continue
		}
		res.Delivered++
	}
	if res.Failed > 0 {
		logging.LogOperation(b.logger, "broadcast_completed",
			slog.String("event", event),
			slog.Int("delivered", res.Delivered),
			slog.Int("failed", res.Failed))
	}
	return res
}

func (b broadcaster) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}
