// Package api wires the HTTP routes and handlers.
//
// It translates HTTP and websocket upgrade requests into service calls and
// service results back into responses.
package api
