package countdown

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxDuration bounds accepted durations so Remaining always fits an int32.
const MaxDuration = math.MaxInt32

// ParseDuration converts user input into whole seconds.
//
// Input is NFKC-normalized first so full-width digits ("３００") parse like
// ASCII ones. Fractions truncate toward zero, except that a positive value
// below one second counts as one second. Zero, negatives and anything that
// is not a finite number are rejected.
func ParseDuration(input string) (int, error) {
	s := strings.TrimSpace(norm.NFKC.String(input))
	if s == "" {
		return 0, newInvalidDuration(input)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newInvalidDuration(input)
	}

	// Sub-second positive input still means "ring on the next tick".
	if f > 0 && f < 1 {
		f = 1
	}
	f = math.Trunc(f)
	if f < 1 || f > MaxDuration {
		return 0, newInvalidDuration(input)
	}
	return int(f), nil
}
