package stations

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wkchan/rainripple/pkg/errors"
)

// Config is the TOML station-position table.
//
//	[[station]]
//	name = "Central & Western"
//	x = 0.38
//	y = 0.42
type Config struct {
	Stations []StationEntry `toml:"station"`
}

// StationEntry is one configured station position in unit coordinates.
type StationEntry struct {
	Name string  `toml:"name"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
}

// LoadConfig reads a TOML station table from path and builds a Registry.
func LoadConfig(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "station table %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "station table %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig parses TOML station-table bytes and builds a Registry.
// A position outside the unit square is a configuration error, not something
// to clamp silently.
func ParseConfig(data []byte) (*Registry, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed station table")
	}

	r := NewRegistry()
	for _, e := range cfg.Stations {
		if e.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidStation, "station entry with empty name")
		}
		if e.X < 0 || e.X > 1 || e.Y < 0 || e.Y > 1 {
			return nil, errors.New(errors.ErrCodeInvalidStation,
				"station %q position (%g, %g) outside the unit square", e.Name, e.X, e.Y)
		}
		r.overrides[e.Name] = position{x: e.X, y: e.Y}
	}
	return r, nil
}
