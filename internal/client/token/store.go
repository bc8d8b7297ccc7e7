// Package token persists the bearer token for the StudyHub client. The
// store is the single source of truth: every component that needs the token
// reads through it at call time and never keeps a private copy, so an
// external logout cannot leave divergent state behind.
package token

// Store holds at most one opaque bearer token.
//
// Contract:
//   - Get returns "" (and no error) when no token is stored.
//   - Set and Clear are idempotent.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}
