// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/carbon-lens/internal/footprint"
	"github.com/iwvelando/carbon-lens/internal/registry"
	"github.com/iwvelando/carbon-lens/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for carbon-lens.
type Configuration struct {
	Habits    footprint.HabitInput
	Scenarios []Scenario
	Regions   []RegionFactors
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// RegionFactors holds one extra region's emission factors supplied by
// configuration. Regions are a list rather than a map so identifiers keep
// their exact spelling through the config loader.
type RegionFactors struct {
	Name    string
	Factors registry.FactorSet
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Scenario holds one named set of reduction percentages to project against
// the baseline.
type Scenario struct {
	Name           string
	Active         bool
	TransportPct   float64
	ElectricityPct float64
	MealsPct       float64
}

// Reduction converts the scenario's percentages into the estimator's
// reduction type.
func (s Scenario) Reduction() footprint.Reduction {
	return footprint.Reduction{
		TransportPct:   s.TransportPct,
		ElectricityPct: s.ElectricityPct,
		MealsPct:       s.MealsPct,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return unmarshalConfiguration(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// arbitrary reader, e.g. an HTTP request body.
func LoadConfigurationFromReader(reader io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return unmarshalConfiguration(v)
}

func unmarshalConfiguration(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if configuration.Habits.Region == "" {
		configuration.Habits.Region = constants.DefaultRegion
	}

	return &configuration, nil
}

// BuildRegistry constructs the emission factor registry from the built-in
// factor sets plus any configured extra regions.
func (c *Configuration) BuildRegistry() (*registry.Registry, error) {
	extra := make(map[string]registry.FactorSet, len(c.Regions))
	for _, region := range c.Regions {
		if _, exists := extra[region.Name]; exists {
			return nil, fmt.Errorf("duplicate region %s in configuration", region.Name)
		}
		extra[region.Name] = region.Factors
	}
	return registry.New(extra)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	seen := make(map[string]bool)
	active := 0
	for _, scenario := range c.Scenarios {
		if scenario.Name == "" {
			warnings = append(warnings, "Scenario with empty name will be hard to identify in output")
		}
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Duplicate scenario name '%s'", scenario.Name))
		}
		seen[scenario.Name] = true
		if scenario.Active {
			active++
		}

		percentages := []struct {
			field string
			value float64
		}{
			{"transportPct", scenario.TransportPct},
			{"electricityPct", scenario.ElectricityPct},
			{"mealsPct", scenario.MealsPct},
		}
		for _, pct := range percentages {
			if pct.value < 0 || pct.value > 100 {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' %s is outside [0,100] and will be rejected",
					scenario.Name, pct.field))
			}
		}
	}

	if len(c.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No scenarios are active; only the baseline will be computed")
	}

	return warnings
}
