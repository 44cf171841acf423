// Package exporter writes a tram's remaining schedule as an iCalendar feed.
package exporter

import (
	"context"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"tramnet.mpk.org/internal/transit"
)

// StopDuration is the length of each calendar event.
const StopDuration = time.Minute

// GenerateICS writes one event per remaining schedule entry of tram, placed
// on day. Entries that wrap past midnight move to the following day.
func GenerateICS(ctx context.Context, tram transit.Tram, day time.Time, w io.Writer) (int, error) {
	id, err := tram.ID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read tram id: %w", err)
	}
	schedule, err := tram.Schedule(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schedule: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tramnet//schedule export//EN")

	now := time.Now()
	var prev time.Time
	for i, item := range schedule {
		name, err := item.Stop.Name(ctx)
		if err != nil {
			return 0, fmt.Errorf("read stop name: %w", err)
		}

		start := item.Time.On(day)
		for !prev.IsZero() && start.Before(prev) {
			start = start.AddDate(0, 0, 1)
		}
		prev = start

		event := cal.AddEvent(fmt.Sprintf("%s-%d@tramnet", tram.Identity().Key, i))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(StopDuration))
		event.SetSummary(fmt.Sprintf("Tram %d at %s", id, name))
		event.SetLocation(name)
		event.SetDescription(fmt.Sprintf("Stop %d of %d", i+1, len(schedule)))
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("write calendar: %w", err)
	}
	return len(schedule), nil
}
