// Package config loads a SandboxConfig describing the environment an
// embedding host wants a script run under: default environment
// variables, starting working directory, the network host allow-list
// handed to httpclient, and the execution limits handed to interp.
//
// The format and load path mirror dannycoates-cc-allow's own
// TOML-driven permission configuration, the closest real-world analog
// to "configure a sandbox that runs untrusted shell" in the pack.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SandboxConfig is the top-level TOML document shape.
type SandboxConfig struct {
	Version string            `toml:"version"`
	Env     map[string]string `toml:"env"`
	Cwd     string            `toml:"cwd"`
	Network NetworkConfig     `toml:"network"`
	Limits  LimitsConfig      `toml:"limits"`
}

// NetworkConfig controls whether the "http" builtin is wired to a
// live client and, if so, which hosts it may reach.
type NetworkConfig struct {
	Enabled bool     `toml:"enabled"`
	Allow   []string `toml:"allow"` // doublestar host glob patterns; "!pattern" negates
}

// LimitsConfig bounds runaway scripts. Zero means "use the built-in
// default" (see interp.DefaultLimits), not "unlimited".
type LimitsConfig struct {
	MaxStatements     int `toml:"max_statements"`
	MaxLoopIterations int `toml:"max_loop_iterations"`
}

// Default returns a minimal, safe-by-default configuration: no
// network access, cwd "/", and the built-in execution limits (left
// at zero here; interp fills them in when Limits is applied as zero).
func Default() *SandboxConfig {
	return &SandboxConfig{
		Version: "1.0",
		Cwd:     "/",
		Env:     map[string]string{},
		Network: NetworkConfig{Enabled: false},
	}
}

// Load reads and parses a SandboxConfig from the TOML file at path.
func Load(path string) (*SandboxConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse parses a SandboxConfig from TOML text, starting from Default
// so unset fields keep their safe defaults rather than zero values
// that might widen, rather than narrow, the sandbox.
func Parse(data string) (*SandboxConfig, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing TOML: %w", err)
	}
	if cfg.Cwd == "" {
		cfg.Cwd = "/"
	}
	return cfg, nil
}
