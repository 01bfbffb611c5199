package cli

import (
	"context"

	pb "github.com/dmitrijs2005/carnet/internal/proto"
)

// API is the server surface the REPL commands use. *client.GRPCClient
// satisfies it.
type API interface {
	Ping(ctx context.Context) error
	ListRecords(ctx context.Context, query string) ([]*pb.Record, error)
	GetStats(ctx context.Context) (pb.Stats, error)
	SetStatus(ctx context.Context, id, status string) (*pb.Record, error)
	RunAutoMatch(ctx context.Context) (bool, error)
	AutoMatchStatus(ctx context.Context) (*pb.GetAutoMatchStatusResponse, error)

	OpenSession(ctx context.Context) (*pb.OpenSessionResponse, error)
	CloseSession(ctx context.Context) error
	SelectRecord(ctx context.Context, id string) (*pb.Record, error)
	SetView(ctx context.Context, view string) error
	GetCard(ctx context.Context, template, orientation string) (*pb.GetCardResponse, error)
	ApplySmartExtraction(ctx context.Context) (bool, error)

	SetNationalID(ctx context.Context, nationalID string) (*pb.IntakeDraft, error)
	ValidateIdentity(ctx context.Context) (bool, *pb.IntakeDraft, error)
	SubmitPhoto(ctx context.Context, filename, contentType string, data []byte) (*pb.IntakeDraft, error)
	GetIntake(ctx context.Context) (*pb.IntakeDraft, error)
	SubmitIntake(ctx context.Context) (*pb.Record, bool, error)

	Close() error
}
