package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/carnet/internal/common"
	pb "github.com/dmitrijs2005/carnet/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.CarnetServiceClient

	mu        sync.Mutex
	sessionID string
}

func withSessionID(ctx context.Context, id string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Delete(common.SessionHeaderName)
	md.Set(common.SessionHeaderName, id)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if id := s.SessionID(); id != "" {
		ctx = withSessionID(ctx, id)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewCarnetClient connects lazily to endpointURL; no call is made until
// the first request.
func NewCarnetClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(extra ...grpc.DialOption) error {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.sessionInterceptor),
	}
	conn, err := grpc.NewClient(s.endpointURL, append(opts, extra...)...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewCarnetServiceClient(conn)
	return nil
}

func (s *GRPCClient) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &pb.PingRequest{})
	return mapError(err)
}

func (s *GRPCClient) ListRecords(ctx context.Context, query string) ([]*pb.Record, error) {
	resp, err := s.client.ListRecords(ctx, &pb.ListRecordsRequest{Query: query})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Records, nil
}

func (s *GRPCClient) GetStats(ctx context.Context) (pb.Stats, error) {
	resp, err := s.client.GetStats(ctx, &pb.GetStatsRequest{})
	if err != nil {
		return pb.Stats{}, mapError(err)
	}
	return resp.Stats, nil
}

func (s *GRPCClient) SetStatus(ctx context.Context, id, status string) (*pb.Record, error) {
	resp, err := s.client.SetStatus(ctx, &pb.SetStatusRequest{ID: id, Status: status})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Record, nil
}

func (s *GRPCClient) RunAutoMatch(ctx context.Context) (bool, error) {
	resp, err := s.client.RunAutoMatch(ctx, &pb.RunAutoMatchRequest{})
	if err != nil {
		return false, mapError(err)
	}
	return resp.Started, nil
}

func (s *GRPCClient) AutoMatchStatus(ctx context.Context) (*pb.GetAutoMatchStatusResponse, error) {
	resp, err := s.client.GetAutoMatchStatus(ctx, &pb.GetAutoMatchStatusRequest{})
	return resp, mapError(err)
}

// OpenSession starts a workspace session; later calls carry its id.
func (s *GRPCClient) OpenSession(ctx context.Context) (*pb.OpenSessionResponse, error) {
	resp, err := s.client.OpenSession(ctx, &pb.OpenSessionRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	s.mu.Lock()
	s.sessionID = resp.SessionID
	s.mu.Unlock()
	return resp, nil
}

func (s *GRPCClient) CloseSession(ctx context.Context) error {
	if s.SessionID() == "" {
		return nil
	}
	_, err := s.client.CloseSession(ctx, &pb.CloseSessionRequest{})
	s.mu.Lock()
	s.sessionID = ""
	s.mu.Unlock()
	return mapError(err)
}

func (s *GRPCClient) session() error {
	if s.SessionID() == "" {
		return ErrNoSession
	}
	return nil
}

func (s *GRPCClient) SelectRecord(ctx context.Context, id string) (*pb.Record, error) {
	if err := s.session(); err != nil {
		return nil, err
	}
	resp, err := s.client.SelectRecord(ctx, &pb.SelectRecordRequest{ID: id})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Record, nil
}

func (s *GRPCClient) SetView(ctx context.Context, view string) error {
	if err := s.session(); err != nil {
		return err
	}
	_, err := s.client.SetView(ctx, &pb.SetViewRequest{View: view})
	return mapError(err)
}

func (s *GRPCClient) GetCard(ctx context.Context, template, orientation string) (*pb.GetCardResponse, error) {
	if err := s.session(); err != nil {
		return nil, err
	}
	resp, err := s.client.GetCard(ctx, &pb.GetCardRequest{Template: template, Orientation: orientation})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ApplySmartExtraction(ctx context.Context) (bool, error) {
	if err := s.session(); err != nil {
		return false, err
	}
	resp, err := s.client.ApplySmartExtraction(ctx, &pb.ApplySmartExtractionRequest{})
	if err != nil {
		return false, mapError(err)
	}
	return resp.Started, nil
}

func (s *GRPCClient) SetNationalID(ctx context.Context, nationalID string) (*pb.IntakeDraft, error) {
	if err := s.session(); err != nil {
		return nil, err
	}
	resp, err := s.client.SetNationalID(ctx, &pb.SetNationalIDRequest{NationalID: nationalID})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Draft, nil
}

func (s *GRPCClient) ValidateIdentity(ctx context.Context) (bool, *pb.IntakeDraft, error) {
	if err := s.session(); err != nil {
		return false, nil, err
	}
	resp, err := s.client.ValidateIdentity(ctx, &pb.ValidateIdentityRequest{})
	if err != nil {
		return false, nil, mapError(err)
	}
	return resp.Started, &resp.Draft, nil
}

func (s *GRPCClient) SubmitPhoto(ctx context.Context, filename, contentType string, data []byte) (*pb.IntakeDraft, error) {
	if err := s.session(); err != nil {
		return nil, err
	}
	resp, err := s.client.SubmitPhoto(ctx, &pb.SubmitPhotoRequest{Filename: filename, ContentType: contentType, Data: data})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Draft, nil
}

func (s *GRPCClient) GetIntake(ctx context.Context) (*pb.IntakeDraft, error) {
	if err := s.session(); err != nil {
		return nil, err
	}
	resp, err := s.client.GetIntake(ctx, &pb.GetIntakeRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Draft, nil
}

// SubmitIntake files the draft. created is false when the national ID
// already had a record and it was updated instead.
func (s *GRPCClient) SubmitIntake(ctx context.Context) (rec *pb.Record, created bool, err error) {
	if err := s.session(); err != nil {
		return nil, false, err
	}
	resp, err := s.client.SubmitIntake(ctx, &pb.SubmitIntakeRequest{})
	if err != nil {
		return nil, false, mapError(err)
	}
	return resp.Record, resp.Created, nil
}

func (s *GRPCClient) ResolvePhoto(ctx context.Context, ref string) (string, error) {
	resp, err := s.client.ResolvePhoto(ctx, &pb.ResolvePhotoRequest{Ref: ref})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}
