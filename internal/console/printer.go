// Package console is the operator side of the network: a subscriber that
// prints the notifications it receives, and the interactive menus used to
// pick what to subscribe to.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"tramnet.mpk.org/internal/transit"
)

// Printer is a User that writes every notification as text lines.
type Printer struct {
	identity transit.Identity
	label    lipgloss.Style
	time     lipgloss.Style

	mu  sync.Mutex
	out io.Writer
}

// NewPrinter returns a Printer writing to w. Styles degrade to plain text
// when w is not a color terminal or color is false.
func NewPrinter(w io.Writer, color bool) *Printer {
	renderer := lipgloss.NewRenderer(w)
	p := &Printer{
		identity: transit.Identity{Kind: transit.KindUser, Key: uuid.NewString()},
		label:    renderer.NewStyle(),
		time:     renderer.NewStyle(),
		out:      w,
	}
	if color {
		p.label = p.label.Foreground(lipgloss.Color("86")).Bold(true)
		p.time = p.time.Foreground(lipgloss.Color("205"))
	}
	return p
}

func (p *Printer) Identity() transit.Identity { return p.identity }

// TramUpdated prints the tram's remaining schedule, one line per stop.
func (p *Printer) TramUpdated(ctx context.Context, tram transit.Tram, stop transit.Stop) error {
	id, err := tram.ID(ctx)
	if err != nil {
		return err
	}
	schedule, err := tram.Schedule(ctx)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(schedule))
	for _, item := range schedule {
		name, err := item.Stop.Name(ctx)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s stops at %s at %s",
			p.label.Render(fmt.Sprintf("Tram %d", id)), name, p.time.Render(clock(item.Time))))
	}
	p.print(lines)
	return nil
}

// StopUpdated prints the stop's arrivals board, one line per arrival.
func (p *Printer) StopUpdated(ctx context.Context, stop transit.Stop, arrivals []transit.Arrival) error {
	name, err := stop.Name(ctx)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(arrivals))
	for _, a := range arrivals {
		id, err := a.Tram.ID(ctx)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return err
		}
		lines = append(lines, fmt.Sprintf("%s, Tram %d arrives at %s",
			p.label.Render("At stop "+name), id, p.time.Render(clock(a.Time))))
	}
	p.print(lines)
	return nil
}

// Println writes a free-form line, serialized with notifications.
func (p *Printer) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

// print writes a block followed by a blank line. Empty blocks print nothing.
func (p *Printer) print(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, line := range lines {
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintln(p.out)
}

// clock formats a time as unpadded hour and minute, e.g. 8:5.
func clock(t transit.TimeOfDay) string {
	return fmt.Sprintf("%d:%d", t.Hour, t.Minute)
}
