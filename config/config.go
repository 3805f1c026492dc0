// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// MatchConfig carries the tunables of the matching engine.
type MatchConfig struct {
	// maximum rank percentile of minimizers
	MaxRank float64 `mapstructure:"maxrank"`

	// minimum percentile of matching bases
	MinBases float64 `mapstructure:"minbases"`

	// maximum insert size in bases
	MaxInsert int `mapstructure:"maxins"`

	// how far the second read may sit ahead of the first, in bases
	MaxTrim int `mapstructure:"maxtrim"`

	// minimum number of matching minimizers
	MinMins int `mapstructure:"minmins"`

	// minimum overlap of each junction side in bases
	MinOverlap int `mapstructure:"minov"`

	// show best only (1) or all patterns (0) matching a read pair
	Show int `mapstructure:"show"`

	// look for single-read matches when a pair has none
	Single bool `mapstructure:"single"`

	// number of worker threads
	Threads int `mapstructure:"threads"`

	// minimizer window length in bases
	Window int `mapstructure:"w"`
}

// Validate enforces the documented option ranges.
func (c *MatchConfig) Validate() error {
	switch {
	case c.MaxRank <= 0 || c.MaxRank > 100:
		return errors.New("maxrank must be in (0,100]")
	case c.MinBases <= 0 || c.MinBases > 100:
		return errors.New("minbases must be in (0,100]")
	case c.MaxInsert < 100:
		return errors.New("maxins must be at least 100")
	case c.MaxTrim < 0:
		return errors.New("maxtrim must be nonnegative")
	case c.MinMins < 1:
		return errors.New("minmins must be positive")
	case c.MinOverlap < 1:
		return errors.New("minov must be positive")
	case c.Show != 0 && c.Show != 1:
		return errors.New("show must be 0 or 1")
	case c.Threads < 1 || c.Threads > 64:
		return errors.New("threads must be in [1,64]")
	case c.Window < 1 || c.Window > 255:
		return errors.New("w must be in [1,255]")
	}
	return nil
}

// SummaryConfig is for settings of the summarize command.
type SummaryConfig struct {
	// identifies the sample
	ID string `mapstructure:"id"`

	// minimum overlap for a strong match
	MinStrong int `mapstructure:"minstrong"`
}

// RankConfig is for settings of the rank table builder.
type RankConfig struct {
	// length of each k-mer
	K int `mapstructure:"k"`
}

// Validate checks the supported k-mer length range.
func (c *RankConfig) Validate() error {
	if c.K < 4 || c.K > 15 {
		return errors.New("k must be in [4,15]")
	}
	return nil
}

// Config is the root-level settings struct, populated from command line
// arguments bound through Viper.
type Config struct {
	Match   MatchConfig   `mapstructure:"match"`
	Summary SummaryConfig `mapstructure:"summary"`
	Rank    RankConfig    `mapstructure:"rank"`
}

// New returns a new Config struct populated by Viper settings.
func New() (*Config, error) {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unable to decode settings")
	}

	return &c, nil
}
