// Package form validates draft reports before they are submitted.
package form

import (
	"strings"
	"time"

	"github.com/five82/lostfound/internal/lostfound"
)

// Field names used as keys in Errors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldDate        = "date"
	FieldStatus      = "status"
	FieldImage       = "image"
)

// Fields lists the required fields in display order.
var Fields = []string{FieldTitle, FieldDescription, FieldLocation, FieldDate}

// Errors maps a field name to its validation message. An empty map means
// the draft is valid.
type Errors map[string]string

// Error implements error, listing messages in field order.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// Valid reports whether there are no errors.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate checks every required field. Date is only required to be present;
// its format is not enforced. Status and image are optional.
func Validate(d lostfound.Draft) Errors {
	errs := Errors{}
	if blank(d.Title) {
		errs[FieldTitle] = "Title is required"
	}
	if blank(d.Description) {
		errs[FieldDescription] = "Description is required"
	}
	if blank(d.Location) {
		errs[FieldLocation] = "Location is required"
	}
	if blank(d.Date) {
		errs[FieldDate] = "Date is required"
	}
	return errs
}

// NewDraft returns a blank draft dated now with status lost.
func NewDraft(now time.Time) lostfound.Draft {
	return lostfound.Draft{
		Status: lostfound.StatusLost,
		Date:   now.Format(lostfound.DateLayout),
	}
}

// Normalize trims the text fields and defaults an empty status to lost.
// The result is what gets submitted.
func Normalize(d lostfound.Draft) lostfound.Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	d.Date = strings.TrimSpace(d.Date)
	if d.Status == "" {
		d.Status = lostfound.StatusLost
	}
	return d
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
