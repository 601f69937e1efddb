// Package registry defines emission factor sets and the read-only lookup
// table mapping region identifiers to their per-unit factors.
package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRegion indicates a lookup for a region the registry does not hold.
var ErrUnknownRegion = errors.New("unknown region")

// FactorSet holds the per-unit emission factors for one region. All values
// are kg CO2 per unit of the habit and must be strictly positive.
type FactorSet struct {
	TransportKgPerKm    float64 `yaml:"transportKgPerKm" json:"transportKgPerKm"`
	ElectricityKgPerKwh float64 `yaml:"electricityKgPerKwh" json:"electricityKgPerKwh"`
	DietKgPerMeal       float64 `yaml:"dietKgPerMeal" json:"dietKgPerMeal"`
	WasteKgPerKg        float64 `yaml:"wasteKgPerKg" json:"wasteKgPerKg"`
}

// Validate checks the strict positivity invariant for every factor.
func (f FactorSet) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"transportKgPerKm", f.TransportKgPerKm},
		{"electricityKgPerKwh", f.ElectricityKgPerKwh},
		{"dietKgPerMeal", f.DietKgPerMeal},
		{"wasteKgPerKg", f.WasteKgPerKg},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("emission factor %s must be positive, got %v", check.name, check.value)
		}
	}
	return nil
}

// builtinFactors are the factor sets shipped with the application. The India
// constants match the published reference values and must not change.
var builtinFactors = map[string]FactorSet{
	"India": {
		TransportKgPerKm:    0.14,
		ElectricityKgPerKwh: 0.82,
		DietKgPerMeal:       1.25,
		WasteKgPerKg:        0.10,
	},
}

// Registry is the immutable region-to-factors table. It is built once at
// startup; no mutation operation is exposed after construction.
type Registry struct {
	factors map[string]FactorSet
}

// New builds a Registry from the built-in factor sets plus any extra sets
// supplied by configuration. Extra sets may add regions but may not override
// a built-in region. Every set is validated before it is admitted.
func New(extra map[string]FactorSet) (*Registry, error) {
	factors := make(map[string]FactorSet, len(builtinFactors)+len(extra))
	for region, set := range builtinFactors {
		factors[region] = set
	}

	for region, set := range extra {
		if region == "" {
			return nil, fmt.Errorf("region identifier must not be empty")
		}
		if _, exists := builtinFactors[region]; exists {
			return nil, fmt.Errorf("region %s is built in and cannot be overridden", region)
		}
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("invalid factor set for region %s: %w", region, err)
		}
		factors[region] = set
	}

	return &Registry{factors: factors}, nil
}

// Lookup returns the factor set for the given region identifier.
func (r *Registry) Lookup(region string) (FactorSet, error) {
	set, ok := r.factors[region]
	if !ok {
		return FactorSet{}, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	return set, nil
}

// Regions returns the sorted list of region identifiers the registry holds.
func (r *Registry) Regions() []string {
	regions := make([]string, 0, len(r.factors))
	for region := range r.factors {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
