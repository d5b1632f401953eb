// Package client talks to the LinguaCards sync server.
//
// Every call is a POST of {action, ...payload} to {server}/api/proxy, the same
// endpoint the web client uses. Sync actions carry the session token as a
// bearer credential. HTTP statuses map onto the sentinel errors of
// internal/common so callers can branch with errors.Is:
//
//	transport failure, 5xx     common.ErrRemoteUnavailable
//	empty server URL           common.ErrConfiguration
//	400, undecodable response  common.ErrInvalidPayload
//	401                        common.ErrUnauthorized
//	404                        common.ErrNotFound
//	409                        common.ErrConflict
package client
