package lostfound

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format the API uses for item dates.
const DateLayout = "2006-01-02"

// ID is an opaque item identifier. The API may send it as a JSON string or a
// JSON number; both decode to the same canonical string form.
type ID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the canonical string form used for comparison and storage.
func (id ID) String() string {
	return string(id)
}

// Status is the lifecycle tag of a report.
type Status string

const (
	StatusLost    Status = "lost"
	StatusFound   Status = "found"
	StatusClaimed Status = "claimed"
)

// Statuses lists every known status in display order.
func Statuses() []Status {
	return []Status{StatusLost, StatusFound, StatusClaimed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusLost, StatusFound, StatusClaimed:
		return true
	default:
		return false
	}
}

// Next cycles through the known statuses. Unknown values restart at lost.
func (s Status) Next() Status {
	switch s {
	case StatusLost:
		return StatusFound
	case StatusFound:
		return StatusClaimed
	default:
		return StatusLost
	}
}

// Label returns the upper-case badge text.
func (s Status) Label() string {
	if s == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(s))
}

// Item mirrors a report record returned by the items endpoint.
type Item struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Image       string `json:"image,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

// ParsedDate returns Date as a time.Time, or the zero time when it does not
// follow DateLayout.
func (i Item) ParsedDate() time.Time {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(i.Date), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Draft is an unsaved report as submitted to the create endpoint. Image holds
// a data URI when an image was attached.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Image       string `json:"image,omitempty"`
}

// errorBody is the structured error payload the API returns on failure.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}
