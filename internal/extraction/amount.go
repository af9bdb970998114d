package extraction

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount normalizes a free-text monetary string to a number rounded to
// cents. Currency symbols, thousands separators and whitespace are stripped;
// empty or unparseable input yields 0. Never fails, and is idempotent on its
// own textual output.
func ParseAmount(text string) float64 {
	var cleaned strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			cleaned.WriteRune(r)
		}
	}
	if cleaned.Len() == 0 {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned.String(), 64)
	if err != nil {
		return 0
	}

	// Round half away from zero on the cents value.
	return math.Round(value*100) / 100
}
