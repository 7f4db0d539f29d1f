// Package units holds the pure volume conversion helpers shared by every
// surface. Storage is always whole milliliters; display is milliliters or US
// fluid ounces depending on user preference.
package units

import (
	"math"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
)

// MlPerOz is the conversion factor for one US fluid ounce.
const MlPerOz = 29.5735

// StandardServingOz is one standard serving, used for suggestion action
// amounts.
const StandardServingOz = 8.0

// StandardServingML is the same serving in whole milliliters.
var StandardServingML = OzToMl(StandardServingOz)

// MlToOz converts whole milliliters to ounces rounded to one decimal place.
func MlToOz(ml int) float64 {
	return math.Round(float64(ml)/MlPerOz*10) / 10
}

// OzToMl converts ounces to the nearest whole milliliter.
func OzToMl(oz float64) int {
	return int(math.Round(oz * MlPerOz))
}

// ToDisplayUnit converts a stored milliliter amount into the given display
// unit. Any finite non-negative input is valid.
func ToDisplayUnit(ml int, unit string) float64 {
	if unit == models.UnitOz {
		return MlToOz(ml)
	}
	return float64(ml)
}

// ToMilliliters converts a display-unit value back to whole milliliters.
func ToMilliliters(value float64, unit string) int {
	if unit == models.UnitOz {
		return OzToMl(value)
	}
	return int(math.Round(value))
}
