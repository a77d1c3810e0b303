/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Immutable configuration for the Relish synthesizer. Holds the value range used
for saturating arithmetic, search size limits, example space parameters and logging options.
A single Config value is threaded through grammar construction, enumeration and solving.
*/

package config

import (
	"fmt"
)

// Config contains all tunable parameters of the synthesizer.
// It is treated as read-only once handed to a grammar, enumerator or solver.
type Config struct {
	// Value model
	IntMax       int `json:"int_max" mapstructure:"int_max"`             // Saturation bound M, values live in [-M, M]
	DefaultValue int `json:"default_value" mapstructure:"default_value"` // Result of empty reductions (minimum of [] etc.)

	// Search limits
	InitialSizeLimit int `json:"initial_size_limit" mapstructure:"initial_size_limit"` // First FTA size limit
	MaxSizeLimit     int `json:"max_size_limit" mapstructure:"max_size_limit"`         // 0 = unbounded
	EnumerateLimit   int `json:"enumerate_limit" mapstructure:"enumerate_limit"`       // Default result count for enumeration

	// Example space
	Examples ExampleSpaceConfig `json:"examples" mapstructure:"examples"`

	// Logging
	Verbose  bool   `json:"verbose" mapstructure:"verbose"`
	LogLevel string `json:"log_level" mapstructure:"log_level"`
}

// ExampleSpaceConfig describes the sampled input space of a lifting task.
type ExampleSpaceConfig struct {
	Count     int   `json:"count" mapstructure:"count"`           // Number of sampled examples
	MinLength int   `json:"min_length" mapstructure:"min_length"` // Minimum list length
	MaxLength int   `json:"max_length" mapstructure:"max_length"` // Maximum list length
	IntMin    int   `json:"int_min" mapstructure:"int_min"`       // Minimum list element
	IntMax    int   `json:"int_max" mapstructure:"int_max"`       // Maximum list element
	Seed      int64 `json:"seed" mapstructure:"seed"`             // Sampling seed
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		IntMax:           100000000,
		DefaultValue:     1000000000,
		InitialSizeLimit: 4,
		MaxSizeLimit:     0,
		EnumerateLimit:   100,
		Examples: ExampleSpaceConfig{
			Count:     2000,
			MinLength: 1,
			MaxLength: 6,
			IntMin:    -5,
			IntMax:    5,
			Seed:      1,
		},
		Verbose:  false,
		LogLevel: "info",
	}
}

// Validate checks the Config for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.IntMax <= 0 {
		return fmt.Errorf("int_max must be positive")
	}
	if c.InitialSizeLimit <= 0 {
		return fmt.Errorf("initial_size_limit must be positive")
	}
	if c.MaxSizeLimit != 0 && c.MaxSizeLimit < c.InitialSizeLimit {
		return fmt.Errorf("max_size_limit (%d) is below initial_size_limit (%d)", c.MaxSizeLimit, c.InitialSizeLimit)
	}
	if c.EnumerateLimit < 0 {
		return fmt.Errorf("enumerate_limit must not be negative")
	}
	return c.Examples.Validate()
}

// Validate checks the example space parameters.
func (c *ExampleSpaceConfig) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("examples.count must be positive")
	}
	if c.MinLength < 0 || c.MaxLength < c.MinLength {
		return fmt.Errorf("invalid list length range [%d, %d]", c.MinLength, c.MaxLength)
	}
	if c.IntMax < c.IntMin {
		return fmt.Errorf("invalid element range [%d, %d]", c.IntMin, c.IntMax)
	}
	return nil
}

// Clamp saturates w into [-IntMax, IntMax].
func (c *Config) Clamp(w int64) int {
	m := int64(c.IntMax)
	if w > m {
		return c.IntMax
	}
	if w < -m {
		return -c.IntMax
	}
	return int(w)
}
