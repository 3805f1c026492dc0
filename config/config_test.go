// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"testing"
)

func defaults() MatchConfig {
	return MatchConfig{
		MaxRank:    95,
		MinBases:   90,
		MaxInsert:  500,
		MaxTrim:    5,
		MinMins:    3,
		MinOverlap: 5,
		Show:       1,
		Threads:    8,
		Window:     5,
	}
}

func TestMatchConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MatchConfig)
		valid  bool
	}{
		{"defaults", func(*MatchConfig) {}, true},
		{"everything shown", func(c *MatchConfig) { c.Show = 0 }, true},
		{"maximum threads", func(c *MatchConfig) { c.Threads = 64 }, true},
		{"zero maxrank", func(c *MatchConfig) { c.MaxRank = 0 }, false},
		{"maxrank above 100", func(c *MatchConfig) { c.MaxRank = 100.5 }, false},
		{"zero minbases", func(c *MatchConfig) { c.MinBases = 0 }, false},
		{"tiny maxins", func(c *MatchConfig) { c.MaxInsert = 99 }, false},
		{"negative maxtrim", func(c *MatchConfig) { c.MaxTrim = -1 }, false},
		{"zero minmins", func(c *MatchConfig) { c.MinMins = 0 }, false},
		{"zero minov", func(c *MatchConfig) { c.MinOverlap = 0 }, false},
		{"bad show", func(c *MatchConfig) { c.Show = 2 }, false},
		{"too many threads", func(c *MatchConfig) { c.Threads = 65 }, false},
		{"zero window", func(c *MatchConfig) { c.Window = 0 }, false},
		{"huge window", func(c *MatchConfig) { c.Window = 256 }, false},
	}

	for _, tt := range tests {
		c := defaults()
		tt.mutate(&c)

		err := c.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: Validate rejected valid settings: %v", tt.name, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("%s: Validate accepted invalid settings", tt.name)
		}
	}
}

func TestRankConfig_Validate(t *testing.T) {
	for _, k := range []int{4, 15} {
		c := RankConfig{K: k}
		if err := c.Validate(); err != nil {
			t.Errorf("Validate rejected k=%d: %v", k, err)
		}
	}
	for _, k := range []int{0, 3, 16} {
		c := RankConfig{K: k}
		if err := c.Validate(); err == nil {
			t.Errorf("Validate accepted k=%d", k)
		}
	}
}
