package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"tramnet.mpk.org/internal/transit"
)

// TramSettings are the values a tram process needs before it can run.
// Zero strings are asked for interactively.
type TramSettings struct {
	ID    string
	Line  string
	Start string
}

// Missing reports whether any setting still has to be asked for.
func (s TramSettings) Missing() bool {
	return s.ID == "" || s.Line == "" || s.Start == ""
}

// ValidateTramID accepts a non-negative integer.
func ValidateTramID(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return errors.New("tram id must be a number")
	}
	if n < 0 {
		return errors.New("tram id must not be negative")
	}
	return nil
}

// LineValidator accepts a line number between 1 and count.
func LineValidator(count int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 || n > count {
			return fmt.Errorf("line must be a number between 1 and %d", count)
		}
		return nil
	}
}

// ValidateStart accepts "HH:MM" or "HH MM".
func ValidateStart(v string) error {
	_, err := transit.ParseTimeOfDay(strings.TrimSpace(v))
	return err
}

// AskTramSettings prompts for every empty field of s. Invalid input keeps
// the form open until corrected.
func AskTramSettings(s *TramSettings, lines []string, theme *huh.Theme) error {
	var fields []huh.Field
	if s.ID == "" {
		fields = append(fields, huh.NewInput().
			Title("Tram ID").
			Validate(ValidateTramID).
			Value(&s.ID))
	}
	if s.Line == "" {
		fields = append(fields, huh.NewInput().
			Title("Line number").
			Description(strings.Join(lines, "\n")).
			Validate(LineValidator(len(lines))).
			Value(&s.Line))
	}
	if s.Start == "" {
		fields = append(fields, huh.NewInput().
			Title("Departure time").
			Placeholder("HH:MM").
			Validate(ValidateStart).
			Value(&s.Start))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(theme).Run()
}
