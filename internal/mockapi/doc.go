// Package mockapi serves the items API from memory for local development and
// tests.
//
// Routes:
//
//	GET  /health      liveness, no credential required
//	GET  /api/items   full collection
//	POST /api/items   create; 422 {"error","fields"} when required fields are blank
//
// Every /api route requires "Authorization: Bearer <token>" matching the token
// given to New. Created items get a UUID and are prepended to the collection.
package mockapi
