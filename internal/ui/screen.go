package ui

import "github.com/five82/lostfound/internal/lostfound"

// screen is the single active screen. The post form draft is kept on the
// model, outside the variants.
type screen interface {
	title() string
	isScreen()
}

// loadingScreen is shown until the first fetch completes, and again after a
// successful post while the list is re-fetched.
type loadingScreen struct{}

type listScreen struct{}

// detailScreen shows one item. favoriteKnown is false until the persisted set
// has been read.
type detailScreen struct {
	item          lostfound.Item
	favorite      bool
	favoriteKnown bool
}

// postFormScreen edits the draft. submitting blocks input while the create
// request is in flight.
type postFormScreen struct {
	submitting bool
}

func (loadingScreen) title() string  { return "Loading" }
func (listScreen) title() string     { return "Items" }
func (detailScreen) title() string   { return "Details" }
func (postFormScreen) title() string { return "Report an item" }

func (loadingScreen) isScreen()  {}
func (listScreen) isScreen()     {}
func (detailScreen) isScreen()   {}
func (postFormScreen) isScreen() {}
