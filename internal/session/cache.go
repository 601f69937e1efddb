// Package session holds the per-session result cache that keeps a baseline
// footprint and a scenario projection consistent across repeated user
// actions.
package session

import (
	"errors"

	"github.com/iwvelando/carbon-lens/internal/footprint"
)

// ErrNoBaseline indicates a scenario action attempted before any baseline
// calculation has run in the session.
var ErrNoBaseline = errors.New("no baseline recorded")

// Baseline pairs the inputs of a baseline calculation with its result, so a
// later scenario projection works against the exact inputs the baseline was
// computed from rather than whatever the UI currently shows.
type Baseline struct {
	Input     footprint.HabitInput
	Footprint footprint.Footprint
}

// Cache holds at most one baseline and at most one scenario projection for a
// single session. Actions within a session are serialized by the driving
// collaborator, so Cache itself carries no lock; the owner of multiple
// session caches is responsible for guarding its own map.
type Cache struct {
	baseline *Baseline
	scenario *footprint.Projection
}

// New returns an empty cache, the state at session start.
func New() *Cache {
	return &Cache{}
}

// RecordBaseline replaces any existing baseline and scenario entries. The
// scenario entry is always cleared because a projection is meaningless
// against a baseline it was not computed from.
func (c *Cache) RecordBaseline(input footprint.HabitInput, result footprint.Footprint) {
	c.baseline = &Baseline{Input: input, Footprint: result}
	c.scenario = nil
}

// RecordScenario stores a projection computed against the current baseline.
// Fails with ErrNoBaseline when no baseline calculation has run yet.
func (c *Cache) RecordScenario(result footprint.Projection) error {
	if c.baseline == nil {
		return ErrNoBaseline
	}
	projection := result
	c.scenario = &projection
	return nil
}

// Baseline returns the current baseline pair, if any. Non-destructive.
func (c *Cache) Baseline() (Baseline, bool) {
	if c.baseline == nil {
		return Baseline{}, false
	}
	return *c.baseline, true
}

// Scenario returns the current scenario projection, if any. Non-destructive.
func (c *Cache) Scenario() (footprint.Projection, bool) {
	if c.scenario == nil {
		return footprint.Projection{}, false
	}
	return *c.scenario, true
}
