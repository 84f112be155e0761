// Package config holds window/runtime settings for the gbemu host,
// trimmed from the teacher's internal/ui.Config down to the window and
// debug options this spec's host actually uses.
package config

// Config contains settings that affect the host window and machine.
type Config struct {
	ROMPath string // path to the ROM to load
	Title   string // window title
	Scale   int    // integer upscaling factor
	Debug   bool   // consult the debugger hook before every CPU step
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
