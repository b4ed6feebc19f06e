package tui

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// matchTab resolves a goto query to a tab: a 1-based number, an exact or
// prefix label match, a substring match, then the closest label by edit
// distance.
func matchTab(labels []string, query string) (int, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(query); err == nil {
		if n >= 1 && n <= len(labels) {
			return n - 1, true
		}
		return 0, false
	}
	lowered := make([]string, len(labels))
	for i, label := range labels {
		lowered[i] = strings.ToLower(label)
		if lowered[i] == query {
			return i, true
		}
	}
	for i, label := range lowered {
		if strings.HasPrefix(label, query) {
			return i, true
		}
	}
	for i, label := range lowered {
		if strings.Contains(label, query) {
			return i, true
		}
	}
	best, bestDistance := -1, gotoMaxMatch+1
	for i, label := range lowered {
		if d := levenshtein.ComputeDistance(query, label); d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best, best >= 0
}
