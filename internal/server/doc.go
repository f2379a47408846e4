// Package server implements the HTTP gateway for the game leaderboard. It
// wires together the routes, middleware (security headers, CORS, rate
// limits, request logging), the Postgres-backed score store, and lifecycle
// helpers used by tests and the production binary.
package server
