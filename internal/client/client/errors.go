package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carnet/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNoSession   = errors.New("no open session")
)

// mapError turns a gRPC status into a sentinel the CLI can match with
// errors.Is, keeping the server's message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error
	switch st.Code() {
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		sentinel = common.ErrorNotFound
	case codes.InvalidArgument:
		sentinel = common.ErrorInvalidInput
	case codes.FailedPrecondition:
		sentinel = common.ErrorConflict
	case codes.DeadlineExceeded:
		sentinel = common.ErrorTimeout
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
