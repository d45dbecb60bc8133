package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultRetention is the fallback cutoff used when a configured archiveAfter
// value is absent or does not parse.
const DefaultRetention = 30 * 24 * time.Hour

// ParseRetention parses an "<N> <unit>" archive duration such as "7 days" or
// "12 hours". Supported units: minutes, hours, days, weeks.
func ParseRetention(s string) (time.Duration, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid retention %q: want \"<N> <unit>\"", s)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid retention amount %q", fields[0])
	}

	var unit time.Duration
	switch strings.TrimSuffix(fields[1], "s") {
	case "minute", "min":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid retention unit %q", fields[1])
	}

	return time.Duration(n) * unit, nil
}
