// Package session holds the pending-authentication binding: an opaque
// session token mapped to the user id that still has to prove control
// of their email. A token carries at most one pending user; binding
// again overwrites. Entries die on their own after the configured idle
// timeout, which is deliberately independent of the challenge expiry.
package session

import (
	"context"
	"errors"
)

// ErrNoBinding is returned when a token has no pending user, either
// because none was ever bound or because the binding timed out.
var ErrNoBinding = errors.New("no pending binding")

type Store interface {
	Bind(ctx context.Context, token string, userID int64) error
	Resolve(ctx context.Context, token string) (int64, error)
	Clear(ctx context.Context, token string) error
}
