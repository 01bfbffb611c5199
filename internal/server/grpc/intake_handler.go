package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

func (s *GRPCServer) SetNationalID(ctx context.Context, req *pb.SetNationalIDRequest) (*pb.IntakeResponse, error) {

	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	sess.Intake.SetNationalID(req.NationalID)

	return &pb.IntakeResponse{Draft: draftToPB(sess.Intake.Draft())}, nil

}

func (s *GRPCServer) ValidateIdentity(ctx context.Context, req *pb.ValidateIdentityRequest) (*pb.ValidateIdentityResponse, error) {

	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	started := sess.Intake.ValidateIdentity(ctx)

	return &pb.ValidateIdentityResponse{Started: started, Draft: draftToPB(sess.Intake.Draft())}, nil

}

func (s *GRPCServer) SubmitPhoto(ctx context.Context, req *pb.SubmitPhotoRequest) (*pb.IntakeResponse, error) {

	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	photo := models.Photo{Filename: req.Filename, ContentType: req.ContentType, Data: req.Data}
	if err := sess.Intake.SubmitPhoto(ctx, photo); err != nil {
		return nil, s.fail(ctx, "submit photo", err)
	}

	return &pb.IntakeResponse{Draft: draftToPB(sess.Intake.Draft())}, nil

}

func (s *GRPCServer) GetIntake(ctx context.Context, req *pb.GetIntakeRequest) (*pb.IntakeResponse, error) {

	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	return &pb.IntakeResponse{Draft: draftToPB(sess.Intake.Draft())}, nil

}

func (s *GRPCServer) SubmitIntake(ctx context.Context, req *pb.SubmitIntakeRequest) (*pb.SubmitIntakeResponse, error) {

	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	rec, created, err := sess.Intake.Submit(ctx)
	if err != nil {
		return nil, s.fail(ctx, "submit intake", err)
	}

	s.logger.Info(ctx, "Intake submitted", "id", rec.ID, "created", created)
	return &pb.SubmitIntakeResponse{Record: recordToPB(rec), Created: created}, nil

}
