package otp

import "context"

// Store keeps at most one record per session.
//
// Put overwrites. GetAndClear must be atomic: among concurrent callers for the
// same session exactly one receives the record, the rest get ErrNotFound.
type Store interface {
	Put(ctx context.Context, sessionID string, rec Record) error
	GetAndClear(ctx context.Context, sessionID string) (Record, error)
	Get(ctx context.Context, sessionID string) (Record, error)
}
