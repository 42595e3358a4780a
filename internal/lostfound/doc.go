// Package lostfound provides an HTTP client for the lost and found items API.
//
// # Overview
//
// This package defines the API client used by the TUI and CLI to read the
// item collection and submit new reports. It handles credential lookup,
// HTTP communication, JSON serialization, and a typed error taxonomy.
//
// # Architecture
//
//   - client.go: HTTP client and request/response handling
//   - types.go: Item, Draft, Status and ID mirroring the API schema
//   - errors.go: AuthError, NetworkError and ServerError
//
// # Client Usage
//
//	client, err := lostfound.NewClient("https://api.example.org", auth.Env("LOSTFOUND_TOKEN"))
//	if err != nil {
//		return err
//	}
//
//	items, err := client.ListItems(ctx)
//	created, err := client.CreateItem(ctx, draft)
//
// # API Endpoints
//
//	GET  /api/items   returns a JSON array of items
//	POST /api/items   accepts a draft, returns the created item
//
// Error responses carry a structured body:
//
//	{"error": "validation failed", "fields": {"title": "Title is required"}}
//
// # Authentication
//
// Every call asks the TokenSource for a bearer credential first. A missing
// credential, or a JWT whose exp claim has passed, fails with *AuthError
// before any request is built. 401 and 403 responses also map to *AuthError.
//
// # Identifiers
//
// Backends disagree on whether ids are numbers or strings. ID decodes both
// into one canonical string, so 42 and "42" compare equal everywhere in the
// client, including the favorites set.
//
// # Creating Items
//
// CreateItem never inserts locally. Callers re-run ListItems after a
// successful create to observe the new record.
package lostfound
