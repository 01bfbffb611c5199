package grpc

import (
	"context"

	"github.com/dmitrijs2005/carnet/internal/common"
	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// fail logs errors outside the taxonomy with their details and maps err to a
// gRPC status.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	if common.Kind(err) == "Internal" {
		s.logger.Error(ctx, op, "error", err)
	}
	return toStatus(err)
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) ListRecords(ctx context.Context, req *pb.ListRecordsRequest) (*pb.ListRecordsResponse, error) {

	list, err := s.svc.Roster.Search(ctx, req.Query)
	if err != nil {
		return nil, s.fail(ctx, "list records", err)
	}

	return &pb.ListRecordsResponse{Records: recordsToPB(list)}, nil

}

func (s *GRPCServer) GetStats(ctx context.Context, req *pb.GetStatsRequest) (*pb.GetStatsResponse, error) {

	stats, err := s.svc.Roster.Stats(ctx)
	if err != nil {
		return nil, s.fail(ctx, "stats", err)
	}

	return &pb.GetStatsResponse{Stats: statsToPB(stats)}, nil

}

func (s *GRPCServer) SetStatus(ctx context.Context, req *pb.SetStatusRequest) (*pb.SetStatusResponse, error) {

	st, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, s.fail(ctx, "set status", err)
	}

	if s.svc.StrictTransitions {
		err = s.svc.Roster.Transition(ctx, req.ID, st)
	} else {
		err = s.svc.Roster.SetStatus(ctx, req.ID, st)
	}
	if err != nil {
		return nil, s.fail(ctx, "set status", err)
	}

	rec, err := s.svc.Roster.Get(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "set status", err)
	}

	s.logger.Info(ctx, "Status changed", "id", req.ID, "status", st)
	return &pb.SetStatusResponse{Record: recordToPB(rec)}, nil

}

func (s *GRPCServer) RunAutoMatch(ctx context.Context, req *pb.RunAutoMatchRequest) (*pb.RunAutoMatchResponse, error) {

	return &pb.RunAutoMatchResponse{Started: s.svc.AutoMatch.Run(ctx)}, nil

}

func (s *GRPCServer) GetAutoMatchStatus(ctx context.Context, req *pb.GetAutoMatchStatusRequest) (*pb.GetAutoMatchStatusResponse, error) {

	last := s.svc.AutoMatch.LastResult()
	return &pb.GetAutoMatchStatusResponse{
		Running:      s.svc.AutoMatch.Running(),
		LastVerified: last.Verified,
		LastError:    last.Err,
		FinishedAt:   last.FinishedAt,
	}, nil

}

func (s *GRPCServer) ResolvePhoto(ctx context.Context, req *pb.ResolvePhotoRequest) (*pb.ResolvePhotoResponse, error) {

	url, err := s.svc.Photos.Resolve(ctx, req.Ref)
	if err != nil {
		return nil, s.fail(ctx, "resolve photo", err)
	}

	return &pb.ResolvePhotoResponse{URL: url}, nil

}
