// Package api contains the client-side bindings for the StudyHub backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     registration, login, invite-code validation, profile, points, invite
//     and leaderboard queries.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer token read from a TokenSource at call time, serializes bodies
//     as JSON (form-encoded for the login exchange), and normalizes error
//     responses.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx statuses are returned as
// *APIError carrying the server's message; a 401 additionally matches
// ErrUnauthorized. All conditions are matched with errors.Is.
//
// Bindings never swallow errors and carry no business logic beyond shape
// mapping; recovery decisions belong to the caller.
package api
