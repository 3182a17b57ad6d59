// SPDX-License-Identifier: MIT

// Package config holds the numeric settings shared by the solver, the
// parameter provider and the command-line tool.
//
// Settings are plain values. Default returns the built-in values; Load reads a
// YAML file on top of them, so a file only needs the keys it changes.
//
//	tolerance: 1e-6
//	slack_penalty: 1
//	tick_rate: 60
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings tune the solve pipeline.
type Settings struct {
	// Tolerance decides when a link is off its target or a slack is active.
	Tolerance float64 `yaml:"tolerance"`
	// SimplexTolerance is the optimality tolerance handed to the LP backend.
	SimplexTolerance float64 `yaml:"simplex_tolerance"`
	// SlackPenalty is the objective weight of every diagnosis slack variable.
	SlackPenalty float64 `yaml:"slack_penalty"`
	// FlowEpsilon is the smallest nested-table residual reported upward.
	FlowEpsilon float64 `yaml:"flow_epsilon"`
	// FluidNormalization divides fluid amounts when ranking the flow array.
	FluidNormalization float64 `yaml:"fluid_normalization"`
	// TickRate floors recipe time at 1/TickRate seconds; 0 disables the floor.
	TickRate float64 `yaml:"tick_rate"`
	// MiningProductivity is the global bonus for mining recipes.
	MiningProductivity float64 `yaml:"mining_productivity"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Tolerance:          1e-6,
		SimplexTolerance:   1e-10,
		SlackPenalty:       1,
		FlowEpsilon:        1e-8,
		FluidNormalization: 50,
		TickRate:           60,
	}
}

// Load reads YAML settings from path over Default and validates the result.
func Load(path string) (Settings, error) {
	s := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}

	return s, s.Validate()
}

// Validate rejects settings the solver cannot work with.
func (s Settings) Validate() error {
	switch {
	case !(s.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidSettings)
	case !(s.SimplexTolerance > 0):
		return fmt.Errorf("%w: simplex_tolerance must be positive", ErrInvalidSettings)
	case !(s.SlackPenalty > 0):
		return fmt.Errorf("%w: slack_penalty must be positive", ErrInvalidSettings)
	case s.FlowEpsilon < 0:
		return fmt.Errorf("%w: flow_epsilon must not be negative", ErrInvalidSettings)
	case !(s.FluidNormalization > 0):
		return fmt.Errorf("%w: fluid_normalization must be positive", ErrInvalidSettings)
	case s.TickRate < 0:
		return fmt.Errorf("%w: tick_rate must not be negative", ErrInvalidSettings)
	case s.MiningProductivity < 0:
		return fmt.Errorf("%w: mining_productivity must not be negative", ErrInvalidSettings)
	}

	return nil
}
