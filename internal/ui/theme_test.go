package ui

import (
	"testing"

	"github.com/five82/lostfound/internal/lostfound"
)

func TestStatusColor(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		cases := map[lostfound.Status]string{
			lostfound.StatusLost:    theme.Lost,
			lostfound.StatusFound:   theme.Found,
			lostfound.StatusClaimed: theme.Claimed,
			"archived":              theme.Unknown,
			"":                      theme.Unknown,
		}
		for status, want := range cases {
			if got := theme.StatusColor(status); got != want || got == "" {
				t.Fatalf("%s StatusColor(%q) = %q, want %q", name, status, got, want)
			}
		}
		if theme.Lost == theme.Found || theme.Found == theme.Claimed {
			t.Fatalf("%s: status colors should be distinct", name)
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	seen := map[string]bool{}
	name := ThemeNames()[0]
	for range ThemeNames() {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != ThemeNames()[0] || len(seen) != len(ThemeNames()) {
		t.Fatalf("NextTheme did not cycle through every theme: %v", seen)
	}
	if NextTheme("missing") != ThemeNames()[0] {
		t.Fatalf("NextTheme(unknown) should restart the cycle")
	}
}

func TestGetThemeFallsBack(t *testing.T) {
	if GetTheme("nope").Name != "Dracula" {
		t.Fatalf("unknown theme should fall back to Dracula")
	}
	if GetTheme("Slate").Name != "Slate" {
		t.Fatalf("GetTheme(Slate) returned wrong theme")
	}
}

func TestTruncateHelpers(t *testing.T) {
	if got := truncate("Backpack", 5); got != "Back…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := truncateMiddle("/home/user/.config/lostfound/config.toml", 20); len(got) != 20 {
		t.Fatalf("truncateMiddle length = %d (%q)", len(got), got)
	}
}
