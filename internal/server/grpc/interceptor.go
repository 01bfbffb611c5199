package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const sessionIDKey ctxKey = "sessionID"

// sessionMethods are the calls that act on a workspace session.
var sessionMethods = map[string]bool{
	pb.CarnetService_CloseSession_FullMethodName:         true,
	pb.CarnetService_SelectRecord_FullMethodName:         true,
	pb.CarnetService_SetView_FullMethodName:              true,
	pb.CarnetService_GetCard_FullMethodName:              true,
	pb.CarnetService_ApplySmartExtraction_FullMethodName: true,
	pb.CarnetService_SetNationalID_FullMethodName:        true,
	pb.CarnetService_ValidateIdentity_FullMethodName:     true,
	pb.CarnetService_SubmitPhoto_FullMethodName:          true,
	pb.CarnetService_GetIntake_FullMethodName:            true,
	pb.CarnetService_SubmitIntake_FullMethodName:         true,
}

func (s *GRPCServer) sessionInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if sessionMethods[info.FullMethod] {

		var sessionID string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.SessionHeaderName)
			if len(values) > 0 {
				sessionID = values[0]
			}
		}
		if len(sessionID) == 0 {
			return nil, status.Error(codes.InvalidArgument, "missing session id")
		}

		ctx = context.WithValue(ctx, sessionIDKey, sessionID)

	}

	return handler(ctx, req)
}

func sessionFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(sessionIDKey).(string)
	if !ok || id == "" {
		return "", status.Error(codes.InvalidArgument, "missing session id")
	}
	return id, nil
}

// observeInterceptor logs every call and records its latency.
func (s *GRPCServer) observeInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	code := status.Code(err)
	s.metrics.ObserveRPC(info.FullMethod, code.String(), elapsed)

	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "duration", elapsed)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "rpc failed", "method", info.FullMethod, "code", code.String(), "duration", elapsed, "error", err)
	default:
		s.logger.Info(ctx, "rpc rejected", "method", info.FullMethod, "code", code.String(), "duration", elapsed, "error", err)
	}
	return resp, err
}
