package grpc

import (
	"errors"

	"github.com/dmitrijs2005/carnet/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto a gRPC status. Internal errors keep
// their details out of the response.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorInvalidInput):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorConflict):
		code = codes.FailedPrecondition
	case errors.Is(err, common.ErrorTimeout):
		code = codes.DeadlineExceeded
	case errors.Is(err, common.ErrorUnavailable):
		code = codes.Unavailable
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
