// Package matching holds the pure ranking rules of the portal: CGPA
// eligibility, resume-to-job match scoring and feed ordering.
package matching

import (
	"math"
	"strconv"
	"strings"
)

// IsEligible reports whether a candidate meets a job's qualification gate.
// A requirement of zero or less means no gate was stated, and such jobs are
// treated as not eligible.
func IsEligible(candidate, required float64) bool {
	return required > 0 && candidate >= required
}

// ParseQualification coerces a free-text qualification to a number.
// Anything that is not a finite, non-negative number becomes 0.
func ParseQualification(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
