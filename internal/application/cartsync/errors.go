// internal/application/cartsync/errors.go
package cartsync

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrRemoteTimeout means the backing store did not answer within the
	// propagation budget. The call may still complete remotely later; its
	// result is discarded by this engine.
	ErrRemoteTimeout = errors.New("cartsync: remote timeout")

	// ErrRemoteRejected means the backing store answered with an error.
	ErrRemoteRejected = errors.New("cartsync: remote rejected")

	// ErrInvalidState marks operations invoked in a state that cannot
	// serve them (empty cart, unauthenticated checkout). Never retried
	// automatically.
	ErrInvalidState = errors.New("cartsync: invalid state")
)

// classifyRemote folds a remote-store failure into the engine's error
// kinds. Both kinds are recoverable at the operation boundary; the caller
// may retry the same operation.
func classifyRemote(err error) error {
	if err == nil {
		return nil
	}
	// gRPC-backed stores surface deadline expiry as a status error, not
	// as context.DeadlineExceeded.
	if errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrRemoteTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrRemoteRejected, err)
}
