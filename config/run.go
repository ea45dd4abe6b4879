package config

import "fmt"

// Start configurations for the gauge field.
const (
	StartCold = "cold"
	StartHot  = "hot"
)

// RunConfig controls the assembly run.
type RunConfig struct {
	// Modules is the dotted path of the module tree.
	Modules string `json:"modules"`
	// Start selects a cold or hot gauge configuration.
	Start string `json:"start"`
	// Seed feeds the random generator for hot starts and refreshes.
	Seed uint64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *RunConfig) SetDefaults() {
	if c.Modules == "" {
		c.Modules = "modules"
	}
	if c.Start == "" {
		c.Start = StartHot
	}
}

// Validate checks the start mode.
func (c RunConfig) Validate() error {
	if c.Start != StartCold && c.Start != StartHot {
		return fmt.Errorf("run: unknown start %q", c.Start)
	}
	return nil
}
