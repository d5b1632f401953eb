package common

import "strings"

// AuthorizationHeaderName carries the bearer session token on sync requests.
const AuthorizationHeaderName = "Authorization"

// Actions accepted by the sync server's single endpoint.
const (
	ActionPing     = "ping"
	ActionRegister = "auth-register"
	ActionLogin    = "auth-login"
	ActionLoad     = "sync-load"
	ActionMerge    = "sync-merge"
)

// NormalizeUsername lower-cases and trims a username so that "Alice" and
// " alice" address the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// AccountKey returns the storage key of an account document.
func AccountKey(username string) string {
	return "user:" + NormalizeUsername(username)
}
