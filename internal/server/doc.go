// Package server exposes neckscan sessions over HTTP and WebSocket.
//
// # Endpoints
//
//	GET  /healthz      liveness and build version
//	POST /api/analyze  one-shot analysis; JSON {"image": "data:..."} or a
//	                   multipart "image" file. Replies with the final
//	                   snapshot and the rendered report view.
//	GET  /ws           one session per connection
//
// # WebSocket Protocol
//
// Clients send JSON commands:
//
//	{"type": "submit", "image": "data:image/jpeg;base64,...", "name": "neck.jpg"}
//	{"type": "reset"}
//
// The server sends a "snapshot" frame for every state change, including each
// loading-message rotation, and an "error" frame when a command is rejected
// (for example a submit while an analysis is already running). Snapshots in
// the result state carry the report view, so clients never compute tiers or
// routines themselves.
//
// Only the write pump writes to a connection. Pings go out every pingPeriod;
// a peer that stays silent for pongWait is dropped and its session closed.
//
// # TLS
//
// Set Config.CertPath and Config.KeyPath to serve HTTPS and WSS on the same
// port. TLS 1.2 is the minimum.
package server
