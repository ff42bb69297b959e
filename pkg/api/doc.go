// Package api defines the REST surface of the relay: request and response
// bodies for the AI routes, the JSON error envelope, and the SSE writers
// used by streaming generation.
//
// # Error envelope
//
// Every error condition returns the same envelope:
//
//	{"error": {"message": "...", "type": "...", "param": "...", "code": "..."}}
//
// The type field determines the HTTP status: an empty provider lineup is
// 503, a request that every backend failed is 502, request validation
// problems are 400, and anything unexpected is 500 with the detail kept
// out of the response. MapError performs that classification for errors
// coming out of the routing and analysis layers.
//
// # Streaming
//
// With "stream": true, POST /api/ai/generate responds as
// text/event-stream: one `data: {"delta": "..."}` event per chunk,
// terminated by `data: [DONE]`.
package api
