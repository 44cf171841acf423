package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tramnet.mpk.org/internal/transit"
)

// Config holds all the configuration settings for a server process. It is
// filled from command-line flags.
type Config struct {
	Port         int
	Env          string
	RegistryName string
	// Advertise is the address other processes use to reach this one.
	// Empty means localhost on Port.
	Advertise string

	StopNames []string
	LineSizes []int
	Seed      int64

	GTFSSource string
	GTFSLines  int

	PollInterval  time.Duration
	NotifyTimeout time.Duration
	HopMinutes    int
	RateLimit     int
	ApiKeys       []string
}

func DefaultConfig() Config {
	return Config{
		Port:          4061,
		Env:           "development",
		RegistryName:  "SIP",
		StopNames:     []string{"a", "b", "c", "d", "e"},
		LineSizes:     []int{5, 6, 4},
		PollInterval:  5 * time.Second,
		NotifyTimeout: 2 * time.Second,
		HopMinutes:    transit.DefaultHopMinutes,
		RateLimit:     100,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.RegistryName) == "" {
		errs = append(errs, errors.New("registry name is required"))
	}
	if c.GTFSSource == "" {
		if len(c.StopNames) == 0 {
			errs = append(errs, errors.New("at least one stop name is required"))
		}
		if len(c.LineSizes) == 0 {
			errs = append(errs, errors.New("at least one line size is required"))
		}
		for _, size := range c.LineSizes {
			if size <= 0 {
				errs = append(errs, fmt.Errorf("line size %d must be positive", size))
			}
		}
	}
	if c.GTFSLines < 0 {
		errs = append(errs, fmt.Errorf("gtfs line cap %d must not be negative", c.GTFSLines))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval %v must be positive", c.PollInterval))
	}
	if c.HopMinutes <= 0 {
		errs = append(errs, fmt.Errorf("hop %d must be positive", c.HopMinutes))
	}
	if c.NotifyTimeout < 0 {
		errs = append(errs, fmt.Errorf("notify timeout %v must not be negative", c.NotifyTimeout))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit %d must not be negative", c.RateLimit))
	}
	return errors.Join(errs...)
}

// AdvertiseAddr returns the address published in references to hosted
// actors.
func (c Config) AdvertiseAddr() string {
	if c.Advertise != "" {
		return c.Advertise
	}
	return fmt.Sprintf("localhost:%d", c.Port)
}

func (c Config) TransitOptions(logger *slog.Logger) transit.Options {
	return transit.Options{
		Logger:        logger,
		NotifyTimeout: c.NotifyTimeout,
		HopMinutes:    c.HopMinutes,
	}
}

// ParseList splits a comma separated flag value, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
