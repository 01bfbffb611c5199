package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/server/workspace"
)

func (s *GRPCServer) session(ctx context.Context) (*workspace.Session, error) {
	id, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.svc.Workspaces.Get(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return sess, nil
}

func (s *GRPCServer) OpenSession(ctx context.Context, req *pb.OpenSessionRequest) (*pb.OpenSessionResponse, error) {

	sess, err := s.svc.Workspaces.Open(ctx)
	if err != nil {
		return nil, s.fail(ctx, "open session", err)
	}

	return &pb.OpenSessionResponse{SessionID: sess.ID, Selected: recordToPB(sess.Composer.Active())}, nil

}

func (s *GRPCServer) CloseSession(ctx context.Context, req *pb.CloseSessionRequest) (*pb.CloseSessionResponse, error) {

	id, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Workspaces.Close(ctx, id); err != nil {
		return nil, s.fail(ctx, "close session", err)
	}

	return &pb.CloseSessionResponse{}, nil

}

func (s *GRPCServer) SelectRecord(ctx context.Context, req *pb.SelectRecordRequest) (*pb.SelectRecordResponse, error) {

	id, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.svc.Workspaces.Select(ctx, id, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "select record", err)
	}

	return &pb.SelectRecordResponse{Record: recordToPB(rec), View: string(models.ViewEditor)}, nil

}

func (s *GRPCServer) SetView(ctx context.Context, req *pb.SetViewRequest) (*pb.SetViewResponse, error) {

	id, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	view := models.View(req.View)
	if err := s.svc.Workspaces.SetView(ctx, id, view); err != nil {
		return nil, s.fail(ctx, "set view", err)
	}

	return &pb.SetViewResponse{View: string(view)}, nil

}

func (s *GRPCServer) GetCard(ctx context.Context, req *pb.GetCardRequest) (*pb.GetCardResponse, error) {

	id, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.svc.Workspaces.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get card", err)
	}

	if req.Template != "" {
		t, err := models.ParseTemplate(req.Template)
		if err != nil {
			return nil, s.fail(ctx, "get card", err)
		}
		sess.Composer.SetTemplate(t)
	}
	if req.Orientation != "" {
		o, err := models.ParseOrientation(req.Orientation)
		if err != nil {
			return nil, s.fail(ctx, "get card", err)
		}
		sess.Composer.SetOrientation(o)
	}

	rec, err := s.svc.Workspaces.ActiveRecord(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get card", err)
	}
	layout, err := sess.Composer.Layout()
	if err != nil {
		return nil, s.fail(ctx, "get card", err)
	}

	return &pb.GetCardResponse{
		Record:          recordToPB(rec),
		Card:            layoutToPB(layout),
		Overridden:      sess.Composer.Overridden(),
		Extracting:      sess.Composer.Extracting(),
		ExtractionError: sess.Composer.ExtractionError(),
	}, nil

}

func (s *GRPCServer) ApplySmartExtraction(ctx context.Context, req *pb.ApplySmartExtractionRequest) (*pb.ApplySmartExtractionResponse, error) {

	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	return &pb.ApplySmartExtractionResponse{Started: sess.Composer.ApplySmartExtraction(ctx)}, nil

}
