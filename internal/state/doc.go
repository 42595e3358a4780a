// Package state holds the item list shared between refresh commands and the
// UI.
//
// A Store is safe for concurrent use and ready as a zero value. Refresh runs
// one fetch per call and numbers each call with a generation. Only the result
// of the newest generation is applied; starting a new refresh cancels the
// context of the previous one, whose call then returns ErrSuperseded.
//
// A failed refresh never clears data. The previous items stay in place,
// LastError records the failure and ConsecutiveFailures grows until the next
// success. Snapshot returns copies so the UI can filter and sort freely.
package state
