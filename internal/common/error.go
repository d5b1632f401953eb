// Package common defines sentinel errors and shared constants used across the
// client and server layers of LinguaCards. Callers should use errors.Is to
// match these values; lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Local store errors. Open and migration failures are fatal for the
	// device and are reported as a blocking health indicator.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Remote errors. ErrRemoteUnavailable is recoverable and the next sync
	// attempt retries; ErrConfiguration means the remote endpoint or its
	// credentials are unset, which disables sync but not local use.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrConfiguration     = errors.New("configuration error")

	// Account errors.
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// Malformed request or snapshot body.
	ErrInvalidPayload = errors.New("invalid payload")

	// The account document changed between read and conditional write.
	ErrVersionConflict = errors.New("version conflict")

	// A sync cycle was requested while another one is running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
