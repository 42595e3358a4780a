// Package filter derives the displayed subset of items from the full
// collection, a status filter and a free-text query.
package filter

import (
	"fmt"
	"strings"

	"github.com/five82/lostfound/internal/lostfound"
)

// Status is the list filter. All disables status filtering.
type Status string

const (
	All     Status = "all"
	Lost    Status = Status(lostfound.StatusLost)
	Found   Status = Status(lostfound.StatusFound)
	Claimed Status = Status(lostfound.StatusClaimed)
)

// ParseStatus accepts the filter names case-insensitively. Blank means All.
func ParseStatus(value string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(value))); s {
	case "", All:
		return All, nil
	case Lost, Found, Claimed:
		return s, nil
	default:
		return All, fmt.Errorf("unknown status filter %q (want all, lost, found or claimed)", value)
	}
}

// Next cycles all -> lost -> found -> claimed -> all.
func (s Status) Next() Status {
	switch s {
	case All:
		return Lost
	case Lost:
		return Found
	case Found:
		return Claimed
	default:
		return All
	}
}

// Label returns the display label.
func (s Status) Label() string {
	switch s {
	case Lost:
		return "Lost"
	case Found:
		return "Found"
	case Claimed:
		return "Claimed"
	default:
		return "All"
	}
}

// Apply returns the items matching status and query in their original order.
// Title and location are matched independently as case-insensitive
// substrings. The input slice is never modified and the result never aliases
// it.
func Apply(items []lostfound.Item, status Status, query string) []lostfound.Item {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]lostfound.Item, 0, len(items))
	for _, item := range items {
		if status != All && status != "" && Status(item.Status) != status {
			continue
		}
		if needle != "" && !Matches(item, needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Matches reports whether a lower-cased, trimmed needle occurs in the item's
// title or location.
func Matches(item lostfound.Item, needle string) bool {
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Location), needle)
}
