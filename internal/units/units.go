// Package units provides shared constants and conversions for beat-interval
// values.
package units

// Unit constants
const (
	Seconds      = "s"
	Milliseconds = "ms"
	BPM          = "bpm"
)

// ValidUnits contains all valid interval unit values
var ValidUnits = []string{Seconds, Milliseconds, BPM}

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
	return "s, ms, bpm"
}

// ConvertInterval converts a beat interval from seconds to the target units.
// The pipeline computes intervals in seconds; dataset outputs use ms.
func ConvertInterval(intervalS float64, targetUnits string) float64 {
	switch targetUnits {
	case Milliseconds:
		return intervalS * 1000
	case BPM:
		if intervalS == 0 {
			return 0
		}
		return 60 / intervalS
	case Seconds:
		return intervalS
	default:
		return intervalS // default to seconds if unknown unit
	}
}
