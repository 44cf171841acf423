package gtfs

import "strings"

type Config struct {
	// Source is a local path or an http(s) URL of a static GTFS zip.
	Source string
	// MaxLines caps the number of routes turned into lines. Zero means all.
	MaxLines int
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.Source, "http://") && !strings.HasPrefix(config.Source, "https://")
}
