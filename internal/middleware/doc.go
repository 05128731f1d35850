// Package middleware provides request middleware for the REST endpoints,
// currently just bearer-token authentication.
package middleware
