// Package grpc exposes the roster, workspace sessions and intake drafts
// over the carnet gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/carnet/internal/logging"
	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/server/workspace"
	"google.golang.org/grpc"
)

// RosterService is the record store as the handlers use it.
type RosterService interface {
	Search(ctx context.Context, query string) ([]*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Stats(ctx context.Context) (models.RosterStats, error)
	SetStatus(ctx context.Context, id string, status models.Status) error
	Transition(ctx context.Context, id string, status models.Status) error
}

type AutoMatchService interface {
	Run(ctx context.Context) bool
	Running() bool
	LastResult() models.AutoMatchResult
}

type WorkspaceService interface {
	Open(ctx context.Context) (*workspace.Session, error)
	Get(ctx context.Context, id string) (*workspace.Session, error)
	Select(ctx context.Context, sessionID, recordID string) (*models.Record, error)
	SetView(ctx context.Context, sessionID string, view models.View) error
	ActiveRecord(ctx context.Context, sessionID string) (*models.Record, error)
	Close(ctx context.Context, id string) error
}

type PhotoResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type Services struct {
	Roster     RosterService
	AutoMatch  AutoMatchService
	Workspaces WorkspaceService
	Photos     PhotoResolver

	// StrictTransitions makes SetStatus reject moves outside the lifecycle.
	StrictTransitions bool
}

type GRPCServer struct {
	pb.UnimplementedCarnetServiceServer
	address string
	svc     Services
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewGRPCServer(a string, l logging.Logger, svc Services, m *metrics.Metrics) (*GRPCServer, error) {
	if l == nil {
		l = logging.Nop()
	}
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		svc:     svc,
		metrics: m,
	}, nil
}

// NewServer builds the grpc.Server with the interceptor chain and the
// service registered, without binding a listener.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.observeInterceptor, s.sessionInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterCarnetServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
