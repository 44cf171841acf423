package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	actionStop = "stop"
	actionTram = "tram"
	actionQuit = "quit"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Theme returns the form theme, or the plain base theme without color.
func Theme(color bool) *huh.Theme {
	if !color {
		return huh.ThemeBase()
	}
	t := huh.ThemeCharm()
	p := lipgloss.Color("99")
	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	return t
}

// Menu is the interactive loop of the client process.
type Menu struct {
	Session *Session
	Printer *Printer
	Theme   *huh.Theme
}

// Run shows the main menu until the operator quits or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		var action string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select option").
				Options(
					huh.NewOption("Register to stop", actionStop),
					huh.NewOption("Register to tram", actionTram),
					huh.NewOption("Quit", actionQuit),
				).
				Value(&action),
		)).WithTheme(m.Theme)

		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		var err error
		switch action {
		case actionStop:
			err = m.registerStop(ctx)
		case actionTram:
			err = m.registerTram(ctx)
		case actionQuit:
			return nil
		}
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			m.Printer.Println(errorStyle.Render(err.Error()))
		}
	}
}

func (m *Menu) registerStop(ctx context.Context) error {
	choices, err := m.Session.StopChoices(ctx)
	if err != nil {
		return fmt.Errorf("list stops: %w", err)
	}
	if len(choices) == 0 {
		m.Printer.Println("no stops")
		return nil
	}

	options := make([]huh.Option[int], 0, len(choices))
	for _, c := range choices {
		options = append(options, huh.NewOption(fmt.Sprintf("Line %d · %d: %s", c.Line, c.ID, c.Name), c.ID))
	}

	var stopID int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Stop to register").
			Options(options...).
			Value(&stopID),
	)).WithTheme(m.Theme)
	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	name, err := m.Session.SubscribeStop(ctx, stopID)
	if err != nil {
		return fmt.Errorf("register to stop: %w", err)
	}
	m.Printer.Println(accentStyle.Render("Registered to stop: " + name))
	return nil
}

func (m *Menu) registerTram(ctx context.Context) error {
	choices, err := m.Session.TramChoices(ctx)
	if err != nil {
		return fmt.Errorf("list trams: %w", err)
	}
	if len(choices) == 0 {
		m.Printer.Println("no trams")
		return nil
	}

	options := make([]huh.Option[int], 0, len(choices))
	for _, c := range choices {
		options = append(options, huh.NewOption(fmt.Sprintf("%d: Tram ID %d", c.Index, c.ID), c.Index))
	}

	var index int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Tram to register").
			Options(options...).
			Value(&index),
	)).WithTheme(m.Theme)
	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	chosen := choices[index]
	if err := m.Session.SubscribeTram(ctx, chosen.Tram); err != nil {
		return fmt.Errorf("register to tram: %w", err)
	}
	m.Printer.Println(accentStyle.Render(fmt.Sprintf("Registered to tram ID: %d", chosen.ID)))
	return nil
}
