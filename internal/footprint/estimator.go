package footprint

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/carbon-lens/internal/registry"
	"github.com/iwvelando/carbon-lens/pkg/constants"
	"github.com/iwvelando/carbon-lens/pkg/mathutil"
)

var (
	// ErrInvalidInput indicates a habit input or reduction outside its domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionUndefined indicates a percent-savings request against a
	// zero baseline total.
	ErrDivisionUndefined = errors.New("percent savings undefined for zero baseline total")
)

// Global validator instance for reuse
var validate = validator.New()

// Estimate converts raw habit inputs plus a factor set into a categorized
// annual footprint. Each category is annualized, converted to tonnes, and
// rounded to two decimals; the total re-rounds the sum of the rounded
// categories to preserve the reference output. All-zero inputs yield a zero
// footprint, not an error.
func Estimate(input HabitInput, factors registry.FactorSet) (Footprint, error) {
	if err := validate.Struct(input); err != nil {
		return Footprint{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return categorize(
		input.DailyDistanceKm,
		input.MonthlyElectricityKwh,
		float64(input.MealsPerDay),
		input.WeeklyWasteKg,
		factors,
	), nil
}

// Project derives a what-if footprint by scaling the transport, electricity,
// and meal inputs down by their reduction percentages and recomputing those
// categories with the baseline formulas. Waste carries over from the baseline
// unchanged. Savings are reported relative to the baseline total; a zero
// baseline total fails with ErrDivisionUndefined because percent savings has
// no defined value there.
func Project(baseline Footprint, input HabitInput, reduction Reduction, factors registry.FactorSet) (Projection, error) {
	if err := validate.Struct(input); err != nil {
		return Projection{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validate.Struct(reduction); err != nil {
		return Projection{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if baseline.TotalT == 0 {
		return Projection{}, ErrDivisionUndefined
	}

	projected := categorize(
		mathutil.ReduceByPercent(input.DailyDistanceKm, reduction.TransportPct),
		mathutil.ReduceByPercent(input.MonthlyElectricityKwh, reduction.ElectricityPct),
		mathutil.ReduceByPercent(float64(input.MealsPerDay), reduction.MealsPct),
		input.WeeklyWasteKg,
		factors,
	)

	// Waste is a fixed category: carry the baseline value over exactly and
	// re-derive the total from it.
	projected.WasteT = baseline.WasteT
	projected.TotalT = mathutil.Round(projected.TransportationT + projected.ElectricityT + projected.DietT + projected.WasteT)

	savings := mathutil.Round(baseline.TotalT - projected.TotalT)
	percent := mathutil.Round(mathutil.CalculatePercentage(savings, baseline.TotalT))

	return Projection{
		Projected:        projected,
		AbsoluteSavingsT: savings,
		PercentSavings:   percent,
	}, nil
}

// categorize applies the fixed annualization formulas to already-validated
// quantities.
func categorize(distanceKm, electricityKwh, meals, wasteKg float64, factors registry.FactorSet) Footprint {
	result := Footprint{
		TransportationT: mathutil.Round(factors.TransportKgPerKm * distanceKm * constants.DaysPerYear / constants.KgPerTonne),
		ElectricityT:    mathutil.Round(factors.ElectricityKgPerKwh * electricityKwh * constants.MonthsPerYear / constants.KgPerTonne),
		DietT:           mathutil.Round(factors.DietKgPerMeal * meals * constants.DaysPerYear / constants.KgPerTonne),
		WasteT:          mathutil.Round(factors.WasteKgPerKg * wasteKg * constants.WeeksPerYear / constants.KgPerTonne),
	}
	result.TotalT = mathutil.Round(result.TransportationT + result.ElectricityT + result.DietT + result.WasteT)
	return result
}
