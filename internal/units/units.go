// Package units provides shared constants, validation and formatting for
// speed units and lap times. Simulation speeds are always metres per second;
// conversion happens only at the reporting boundary.
package units

import (
	"fmt"
	"math"
	"time"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ConvertSpeed converts a speed from metres per second to the target units.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMPS
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// FormatLapTime renders a lap time in seconds as m:ss.mmm.
func FormatLapTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "-:--.---"
	}
	d := time.Duration(seconds * float64(time.Second))
	mins := int(d / time.Minute)
	rem := d - time.Duration(mins)*time.Minute
	return fmt.Sprintf("%d:%06.3f", mins, rem.Seconds())
}
