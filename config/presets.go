package config

import (
	"fmt"
	"sort"
	"strings"
)

// Presets model real chains' consensus parameters over the default
// network and transaction load.
var presets = map[string]func(*Config){
	"bitcoin": func(c *Config) {
		c.Mining.TargetBlockTime = 600
		c.Mining.BlockCapacity = 4096
		c.Mining.RetargetInterval = 2016
		c.Economics.InitialReward = 50
		c.Economics.HalvingInterval = 210000
		c.Simulation.ReportEvery = 144
	},
	"litecoin": func(c *Config) {
		c.Mining.TargetBlockTime = 150
		c.Mining.BlockCapacity = 8192
		c.Mining.RetargetInterval = 2016
		c.Economics.InitialReward = 50
		c.Economics.HalvingInterval = 840000
		c.Simulation.ReportEvery = 576
	},
}

// Preset returns the named built-in scenario layered over defaults.
func Preset(name string) (Config, error) {
	apply, ok := presets[strings.ToLower(name)]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q, have %s",
			ErrInvalid, name, strings.Join(Presets(), ", "))
	}
	cfg := DefaultConfig()
	apply(&cfg)
	return cfg, nil
}

// Presets lists the built-in preset names in stable order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
