// Package share hands a report off to the platform as plain text.
package share

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/five82/lostfound/internal/lostfound"
)

// Sharer delivers a message with a title.
type Sharer interface {
	Share(title, message string) error
}

// Clipboard copies the title and message to the system clipboard.
type Clipboard struct{}

// Share implements Sharer.
func (Clipboard) Share(title, message string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	text := message
	if t := strings.TrimSpace(title); t != "" {
		text = t + "\n\n" + message
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Title returns the share title for item.
func Title(item lostfound.Item) string {
	return fmt.Sprintf("%s item: %s", statusWord(item.Status), strings.TrimSpace(item.Title))
}

// Message builds the plain-text body describing item.
func Message(item lostfound.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", item.Status.Label(), strings.TrimSpace(item.Title))
	if loc := strings.TrimSpace(item.Location); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}
	if date := strings.TrimSpace(item.Date); date != "" {
		fmt.Fprintf(&b, "Date: %s\n", date)
	}
	if owner := strings.TrimSpace(item.Owner); owner != "" {
		fmt.Fprintf(&b, "Reported by: %s\n", owner)
	}
	if desc := strings.TrimSpace(item.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusWord(s lostfound.Status) string {
	switch s {
	case lostfound.StatusLost:
		return "Lost"
	case lostfound.StatusFound:
		return "Found"
	case lostfound.StatusClaimed:
		return "Claimed"
	default:
		return "Reported"
	}
}
