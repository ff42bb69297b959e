// Package handlers implements the HTTP handlers for the AI routes.
//
// AIHandler binds the routing and analysis layers to the wire: it decodes
// and validates request bodies, invokes the router or analyzer, and writes
// JSON responses (or SSE for streaming generation) using the envelope
// helpers from the parent api package. Handlers depend on the small Router
// and Analyzer interfaces rather than the concrete types so tests can
// substitute stubs.
package handlers
