package extraction

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDate normalizes a free-text date to zero-padded YYYY-MM-DD.
//
// Slash-separated values are read as month/day/year (US convention).
// Dash-separated values are read as year-month-day when the first token has
// four digits, otherwise day-month-year. Two-digit years are promoted by
// adding 2000. A value like "05-06-07" therefore flips meaning on the length
// of its first token alone; that heuristic is deliberate and must not be
// "fixed". Day is only checked against [1,31] with no per-month or leap-year
// rule.
//
// Returns ok=false for anything that does not split into exactly three
// numeric parts, or whose month, day or year falls outside range.
func ParseDate(text string) (string, bool) {
	text = strings.TrimSpace(text)

	var parts []string
	var month, day, year int
	switch {
	case strings.Contains(text, "/"):
		parts = strings.Split(text, "/")
		if len(parts) != 3 {
			return "", false
		}
		var ok bool
		if month, day, year, ok = atoi3(parts[0], parts[1], parts[2]); !ok {
			return "", false
		}
	case strings.Contains(text, "-"):
		parts = strings.Split(text, "-")
		if len(parts) != 3 {
			return "", false
		}
		var ok bool
		if len(parts[0]) == 4 {
			if year, month, day, ok = atoi3(parts[0], parts[1], parts[2]); !ok {
				return "", false
			}
		} else {
			if day, month, year, ok = atoi3(parts[0], parts[1], parts[2]); !ok {
				return "", false
			}
		}
	default:
		return "", false
	}

	if month < 1 || month > 12 {
		return "", false
	}
	if day < 1 || day > 31 {
		return "", false
	}
	if year < 100 {
		year += 2000
	}
	if year < 1900 || year > 2100 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func atoi3(a, b, c string) (int, int, int, bool) {
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, 0, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, 0, false
	}
	z, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return 0, 0, 0, false
	}
	return x, y, z, true
}
