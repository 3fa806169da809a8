package util

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Configuration drives the cmd/app runner. Values come from an
// optional TOML file; flags override individual fields afterwards.
type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	// Protocol is the path of the definitions file to load.
	Protocol string `toml:"protocol"`
	// Interaction is the entry binding applied during a scan.
	Interaction string `toml:"interaction"`
	// State is the initial state expression handed to the interaction.
	State string `toml:"state"`

	Grid  GridConfig  `toml:"grid"`
	Bench BenchConfig `toml:"bench"`
}

// GridConfig bounds the coordinate sweep of a scan, both ends
// inclusive.
type GridConfig struct {
	XMin int64 `toml:"x_min"`
	XMax int64 `toml:"x_max"`
	YMin int64 `toml:"y_min"`
	YMax int64 `toml:"y_max"`
}

// BenchConfig points the run recorder at a SQL database. Driver is one
// of sqlite3, mysql, postgres; an empty driver disables recording.
type BenchConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Interaction: "galaxy",
		State:       "nil",
		Grid:        GridConfig{XMin: -100, XMax: 100, YMin: -100, YMax: 100},
	}
}

// LoadConfiguration reads path over the defaults. A missing file is
// not an error; a malformed one is.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
