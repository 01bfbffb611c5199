package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "carnet.v1.CarnetService"

const (
	CarnetService_Ping_FullMethodName                 = "/" + ServiceName + "/Ping"
	CarnetService_ListRecords_FullMethodName          = "/" + ServiceName + "/ListRecords"
	CarnetService_GetStats_FullMethodName             = "/" + ServiceName + "/GetStats"
	CarnetService_SetStatus_FullMethodName            = "/" + ServiceName + "/SetStatus"
	CarnetService_RunAutoMatch_FullMethodName         = "/" + ServiceName + "/RunAutoMatch"
	CarnetService_GetAutoMatchStatus_FullMethodName   = "/" + ServiceName + "/GetAutoMatchStatus"
	CarnetService_OpenSession_FullMethodName          = "/" + ServiceName + "/OpenSession"
	CarnetService_CloseSession_FullMethodName         = "/" + ServiceName + "/CloseSession"
	CarnetService_SelectRecord_FullMethodName         = "/" + ServiceName + "/SelectRecord"
	CarnetService_SetView_FullMethodName              = "/" + ServiceName + "/SetView"
	CarnetService_GetCard_FullMethodName              = "/" + ServiceName + "/GetCard"
	CarnetService_ApplySmartExtraction_FullMethodName = "/" + ServiceName + "/ApplySmartExtraction"
	CarnetService_SetNationalID_FullMethodName        = "/" + ServiceName + "/SetNationalID"
	CarnetService_ValidateIdentity_FullMethodName     = "/" + ServiceName + "/ValidateIdentity"
	CarnetService_SubmitPhoto_FullMethodName          = "/" + ServiceName + "/SubmitPhoto"
	CarnetService_GetIntake_FullMethodName            = "/" + ServiceName + "/GetIntake"
	CarnetService_SubmitIntake_FullMethodName         = "/" + ServiceName + "/SubmitIntake"
	CarnetService_ResolvePhoto_FullMethodName         = "/" + ServiceName + "/ResolvePhoto"
)

// CarnetServiceClient is the client API for CarnetService.
type CarnetServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	ListRecords(ctx context.Context, in *ListRecordsRequest, opts ...grpc.CallOption) (*ListRecordsResponse, error)
	GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error)
	SetStatus(ctx context.Context, in *SetStatusRequest, opts ...grpc.CallOption) (*SetStatusResponse, error)
	RunAutoMatch(ctx context.Context, in *RunAutoMatchRequest, opts ...grpc.CallOption) (*RunAutoMatchResponse, error)
	GetAutoMatchStatus(ctx context.Context, in *GetAutoMatchStatusRequest, opts ...grpc.CallOption) (*GetAutoMatchStatusResponse, error)
	OpenSession(ctx context.Context, in *OpenSessionRequest, opts ...grpc.CallOption) (*OpenSessionResponse, error)
	CloseSession(ctx context.Context, in *CloseSessionRequest, opts ...grpc.CallOption) (*CloseSessionResponse, error)
	SelectRecord(ctx context.Context, in *SelectRecordRequest, opts ...grpc.CallOption) (*SelectRecordResponse, error)
	SetView(ctx context.Context, in *SetViewRequest, opts ...grpc.CallOption) (*SetViewResponse, error)
	GetCard(ctx context.Context, in *GetCardRequest, opts ...grpc.CallOption) (*GetCardResponse, error)
	ApplySmartExtraction(ctx context.Context, in *ApplySmartExtractionRequest, opts ...grpc.CallOption) (*ApplySmartExtractionResponse, error)
	SetNationalID(ctx context.Context, in *SetNationalIDRequest, opts ...grpc.CallOption) (*IntakeResponse, error)
	ValidateIdentity(ctx context.Context, in *ValidateIdentityRequest, opts ...grpc.CallOption) (*ValidateIdentityResponse, error)
	SubmitPhoto(ctx context.Context, in *SubmitPhotoRequest, opts ...grpc.CallOption) (*IntakeResponse, error)
	GetIntake(ctx context.Context, in *GetIntakeRequest, opts ...grpc.CallOption) (*IntakeResponse, error)
	SubmitIntake(ctx context.Context, in *SubmitIntakeRequest, opts ...grpc.CallOption) (*SubmitIntakeResponse, error)
	ResolvePhoto(ctx context.Context, in *ResolvePhotoRequest, opts ...grpc.CallOption) (*ResolvePhotoResponse, error)
}

type carnetServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCarnetServiceClient returns a client whose calls always use the JSON
// codec.
func NewCarnetServiceClient(cc grpc.ClientConnInterface) CarnetServiceClient {
	return &carnetServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *carnetServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, CarnetService_Ping_FullMethodName, in, opts)
}

func (c *carnetServiceClient) ListRecords(ctx context.Context, in *ListRecordsRequest, opts ...grpc.CallOption) (*ListRecordsResponse, error) {
	return invoke[ListRecordsResponse](ctx, c.cc, CarnetService_ListRecords_FullMethodName, in, opts)
}

func (c *carnetServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return invoke[GetStatsResponse](ctx, c.cc, CarnetService_GetStats_FullMethodName, in, opts)
}

func (c *carnetServiceClient) SetStatus(ctx context.Context, in *SetStatusRequest, opts ...grpc.CallOption) (*SetStatusResponse, error) {
	return invoke[SetStatusResponse](ctx, c.cc, CarnetService_SetStatus_FullMethodName, in, opts)
}

func (c *carnetServiceClient) RunAutoMatch(ctx context.Context, in *RunAutoMatchRequest, opts ...grpc.CallOption) (*RunAutoMatchResponse, error) {
	return invoke[RunAutoMatchResponse](ctx, c.cc, CarnetService_RunAutoMatch_FullMethodName, in, opts)
}

func (c *carnetServiceClient) GetAutoMatchStatus(ctx context.Context, in *GetAutoMatchStatusRequest, opts ...grpc.CallOption) (*GetAutoMatchStatusResponse, error) {
	return invoke[GetAutoMatchStatusResponse](ctx, c.cc, CarnetService_GetAutoMatchStatus_FullMethodName, in, opts)
}

func (c *carnetServiceClient) OpenSession(ctx context.Context, in *OpenSessionRequest, opts ...grpc.CallOption) (*OpenSessionResponse, error) {
	return invoke[OpenSessionResponse](ctx, c.cc, CarnetService_OpenSession_FullMethodName, in, opts)
}

func (c *carnetServiceClient) CloseSession(ctx context.Context, in *CloseSessionRequest, opts ...grpc.CallOption) (*CloseSessionResponse, error) {
	return invoke[CloseSessionResponse](ctx, c.cc, CarnetService_CloseSession_FullMethodName, in, opts)
}

func (c *carnetServiceClient) SelectRecord(ctx context.Context, in *SelectRecordRequest, opts ...grpc.CallOption) (*SelectRecordResponse, error) {
	return invoke[SelectRecordResponse](ctx, c.cc, CarnetService_SelectRecord_FullMethodName, in, opts)
}

func (c *carnetServiceClient) SetView(ctx context.Context, in *SetViewRequest, opts ...grpc.CallOption) (*SetViewResponse, error) {
	return invoke[SetViewResponse](ctx, c.cc, CarnetService_SetView_FullMethodName, in, opts)
}

func (c *carnetServiceClient) GetCard(ctx context.Context, in *GetCardRequest, opts ...grpc.CallOption) (*GetCardResponse, error) {
	return invoke[GetCardResponse](ctx, c.cc, CarnetService_GetCard_FullMethodName, in, opts)
}

func (c *carnetServiceClient) ApplySmartExtraction(ctx context.Context, in *ApplySmartExtractionRequest, opts ...grpc.CallOption) (*ApplySmartExtractionResponse, error) {
	return invoke[ApplySmartExtractionResponse](ctx, c.cc, CarnetService_ApplySmartExtraction_FullMethodName, in, opts)
}

func (c *carnetServiceClient) SetNationalID(ctx context.Context, in *SetNationalIDRequest, opts ...grpc.CallOption) (*IntakeResponse, error) {
	return invoke[IntakeResponse](ctx, c.cc, CarnetService_SetNationalID_FullMethodName, in, opts)
}

func (c *carnetServiceClient) ValidateIdentity(ctx context.Context, in *ValidateIdentityRequest, opts ...grpc.CallOption) (*ValidateIdentityResponse, error) {
	return invoke[ValidateIdentityResponse](ctx, c.cc, CarnetService_ValidateIdentity_FullMethodName, in, opts)
}

func (c *carnetServiceClient) SubmitPhoto(ctx context.Context, in *SubmitPhotoRequest, opts ...grpc.CallOption) (*IntakeResponse, error) {
	return invoke[IntakeResponse](ctx, c.cc, CarnetService_SubmitPhoto_FullMethodName, in, opts)
}

func (c *carnetServiceClient) GetIntake(ctx context.Context, in *GetIntakeRequest, opts ...grpc.CallOption) (*IntakeResponse, error) {
	return invoke[IntakeResponse](ctx, c.cc, CarnetService_GetIntake_FullMethodName, in, opts)
}

func (c *carnetServiceClient) SubmitIntake(ctx context.Context, in *SubmitIntakeRequest, opts ...grpc.CallOption) (*SubmitIntakeResponse, error) {
	return invoke[SubmitIntakeResponse](ctx, c.cc, CarnetService_SubmitIntake_FullMethodName, in, opts)
}

func (c *carnetServiceClient) ResolvePhoto(ctx context.Context, in *ResolvePhotoRequest, opts ...grpc.CallOption) (*ResolvePhotoResponse, error) {
	return invoke[ResolvePhotoResponse](ctx, c.cc, CarnetService_ResolvePhoto_FullMethodName, in, opts)
}

// CarnetServiceServer is the server API for CarnetService. Implementations
// must embed UnimplementedCarnetServiceServer.
type CarnetServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ListRecords(context.Context, *ListRecordsRequest) (*ListRecordsResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	SetStatus(context.Context, *SetStatusRequest) (*SetStatusResponse, error)
	RunAutoMatch(context.Context, *RunAutoMatchRequest) (*RunAutoMatchResponse, error)
	GetAutoMatchStatus(context.Context, *GetAutoMatchStatusRequest) (*GetAutoMatchStatusResponse, error)
	OpenSession(context.Context, *OpenSessionRequest) (*OpenSessionResponse, error)
	CloseSession(context.Context, *CloseSessionRequest) (*CloseSessionResponse, error)
	SelectRecord(context.Context, *SelectRecordRequest) (*SelectRecordResponse, error)
	SetView(context.Context, *SetViewRequest) (*SetViewResponse, error)
	GetCard(context.Context, *GetCardRequest) (*GetCardResponse, error)
	ApplySmartExtraction(context.Context, *ApplySmartExtractionRequest) (*ApplySmartExtractionResponse, error)
	SetNationalID(context.Context, *SetNationalIDRequest) (*IntakeResponse, error)
	ValidateIdentity(context.Context, *ValidateIdentityRequest) (*ValidateIdentityResponse, error)
	SubmitPhoto(context.Context, *SubmitPhotoRequest) (*IntakeResponse, error)
	GetIntake(context.Context, *GetIntakeRequest) (*IntakeResponse, error)
	SubmitIntake(context.Context, *SubmitIntakeRequest) (*SubmitIntakeResponse, error)
	ResolvePhoto(context.Context, *ResolvePhotoRequest) (*ResolvePhotoResponse, error)
	mustEmbedUnimplementedCarnetServiceServer()
}

type UnimplementedCarnetServiceServer struct{}

func (UnimplementedCarnetServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedCarnetServiceServer) ListRecords(context.Context, *ListRecordsRequest) (*ListRecordsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRecords not implemented")
}

func (UnimplementedCarnetServiceServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}

func (UnimplementedCarnetServiceServer) SetStatus(context.Context, *SetStatusRequest) (*SetStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetStatus not implemented")
}

func (UnimplementedCarnetServiceServer) RunAutoMatch(context.Context, *RunAutoMatchRequest) (*RunAutoMatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RunAutoMatch not implemented")
}

func (UnimplementedCarnetServiceServer) GetAutoMatchStatus(context.Context, *GetAutoMatchStatusRequest) (*GetAutoMatchStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAutoMatchStatus not implemented")
}

func (UnimplementedCarnetServiceServer) OpenSession(context.Context, *OpenSessionRequest) (*OpenSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method OpenSession not implemented")
}

func (UnimplementedCarnetServiceServer) CloseSession(context.Context, *CloseSessionRequest) (*CloseSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseSession not implemented")
}

func (UnimplementedCarnetServiceServer) SelectRecord(context.Context, *SelectRecordRequest) (*SelectRecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SelectRecord not implemented")
}

func (UnimplementedCarnetServiceServer) SetView(context.Context, *SetViewRequest) (*SetViewResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetView not implemented")
}

func (UnimplementedCarnetServiceServer) GetCard(context.Context, *GetCardRequest) (*GetCardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCard not implemented")
}

func (UnimplementedCarnetServiceServer) ApplySmartExtraction(context.Context, *ApplySmartExtractionRequest) (*ApplySmartExtractionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApplySmartExtraction not implemented")
}

func (UnimplementedCarnetServiceServer) SetNationalID(context.Context, *SetNationalIDRequest) (*IntakeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetNationalID not implemented")
}

func (UnimplementedCarnetServiceServer) ValidateIdentity(context.Context, *ValidateIdentityRequest) (*ValidateIdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ValidateIdentity not implemented")
}

func (UnimplementedCarnetServiceServer) SubmitPhoto(context.Context, *SubmitPhotoRequest) (*IntakeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitPhoto not implemented")
}

func (UnimplementedCarnetServiceServer) GetIntake(context.Context, *GetIntakeRequest) (*IntakeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetIntake not implemented")
}

func (UnimplementedCarnetServiceServer) SubmitIntake(context.Context, *SubmitIntakeRequest) (*SubmitIntakeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitIntake not implemented")
}

func (UnimplementedCarnetServiceServer) ResolvePhoto(context.Context, *ResolvePhotoRequest) (*ResolvePhotoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResolvePhoto not implemented")
}

func (UnimplementedCarnetServiceServer) mustEmbedUnimplementedCarnetServiceServer() {}

func RegisterCarnetServiceServer(s grpc.ServiceRegistrar, srv CarnetServiceServer) {
	s.RegisterService(&CarnetService_ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(CarnetServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CarnetServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CarnetServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var CarnetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CarnetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", CarnetServiceServer.Ping),
		unary("ListRecords", CarnetServiceServer.ListRecords),
		unary("GetStats", CarnetServiceServer.GetStats),
		unary("SetStatus", CarnetServiceServer.SetStatus),
		unary("RunAutoMatch", CarnetServiceServer.RunAutoMatch),
		unary("GetAutoMatchStatus", CarnetServiceServer.GetAutoMatchStatus),
		unary("OpenSession", CarnetServiceServer.OpenSession),
		unary("CloseSession", CarnetServiceServer.CloseSession),
		unary("SelectRecord", CarnetServiceServer.SelectRecord),
		unary("SetView", CarnetServiceServer.SetView),
		unary("GetCard", CarnetServiceServer.GetCard),
		unary("ApplySmartExtraction", CarnetServiceServer.ApplySmartExtraction),
		unary("SetNationalID", CarnetServiceServer.SetNationalID),
		unary("ValidateIdentity", CarnetServiceServer.ValidateIdentity),
		unary("SubmitPhoto", CarnetServiceServer.SubmitPhoto),
		unary("GetIntake", CarnetServiceServer.GetIntake),
		unary("SubmitIntake", CarnetServiceServer.SubmitIntake),
		unary("ResolvePhoto", CarnetServiceServer.ResolvePhoto),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "carnet/v1/carnet.proto",
}
