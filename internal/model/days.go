package model

import "strings"

// Weekdays lists the seven day tokens in display order. The same tokens
// are used as days entries and as completed map keys.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// NormalizeDays lowercases and trims each token, dropping duplicates while
// preserving first-seen order. Unknown tokens are kept for the caller to
// reject.
func NormalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
