// Package footprint defines the data structures related to a household
// carbon footprint and includes the pure functions for computing the
// baseline estimate and the what-if scenario projection.
package footprint

// HabitInput holds the raw lifestyle inputs for one estimation request.
// It is created fresh on every user-triggered calculation.
type HabitInput struct {
	Region                string  `yaml:"region" json:"region" validate:"required"`
	DailyDistanceKm       float64 `yaml:"dailyDistanceKm" json:"dailyDistanceKm" validate:"gte=0"`
	MonthlyElectricityKwh float64 `yaml:"monthlyElectricityKwh" json:"monthlyElectricityKwh" validate:"gte=0"`
	MealsPerDay           int     `yaml:"mealsPerDay" json:"mealsPerDay" validate:"gte=0"`
	WeeklyWasteKg         float64 `yaml:"weeklyWasteKg" json:"weeklyWasteKg" validate:"gte=0"`
}

// Footprint is one categorized annual footprint, either a baseline or a
// projected scenario. All values are tonnes CO2 per year rounded to two
// decimals; Total is the rounded sum of the already-rounded categories,
// matching the reference behavior. Immutable once constructed.
type Footprint struct {
	TransportationT float64 `json:"transportationT"`
	ElectricityT    float64 `json:"electricityT"`
	DietT           float64 `json:"dietT"`
	WasteT          float64 `json:"wasteT"`
	TotalT          float64 `json:"totalT"`
}

// Reduction holds the caller-supplied percentage changes for a projection.
// Waste has no reduction input; its projected value always equals the
// baseline's waste value.
type Reduction struct {
	TransportPct   float64 `yaml:"transportPct" json:"transportPct" validate:"gte=0,lte=100"`
	ElectricityPct float64 `yaml:"electricityPct" json:"electricityPct" validate:"gte=0,lte=100"`
	MealsPct       float64 `yaml:"mealsPct" json:"mealsPct" validate:"gte=0,lte=100"`
}

// Projection is the output of a scenario projection against a baseline.
type Projection struct {
	Projected        Footprint `json:"projected"`
	AbsoluteSavingsT float64   `json:"absoluteSavingsT"`
	PercentSavings   float64   `json:"percentSavings"`
}
