// Package ui implements the lostfound terminal interface with Bubble Tea.
//
// The model holds exactly one screen value: loading, list, detail or post
// form. Transitions happen only in Update, and every network or storage call
// runs as a tea.Cmd whose result comes back as a message:
//
//	Loading ──fetch──▶ List ──enter──▶ Detail ──esc──▶ List
//	                    │
//	                    └──n──▶ PostForm ──ctrl+s, valid, created──▶ Loading
//
// A failed fetch still lands on the list, keeping whatever items were shown
// before and adding an error banner. Refreshes go through state.Store, which
// cancels a refresh that a newer one superseded; the stale result message is
// dropped.
//
// Favorite lookups and toggles update the detail screen only when the result
// matches the item still on screen. A storage failure during a toggle is
// logged and otherwise ignored.
package ui
