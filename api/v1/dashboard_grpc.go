package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "dashboard.v1.CollaborationDashboard"

const (
	MethodCreateSession            = "CreateSession"
	MethodCloseSession             = "CloseSession"
	MethodSetFilter                = "SetFilter"
	MethodResetFilters             = "ResetFilters"
	MethodGetHospitalOverview      = "GetHospitalOverview"
	MethodGetDivisionComparison    = "GetDivisionComparison"
	MethodListReviews              = "ListReviews"
	MethodToggleReviewSentiment    = "ToggleReviewSentiment"
	MethodGetTeamRanking           = "GetTeamRanking"
	MethodGetSentimentDistribution = "GetSentimentDistribution"
	MethodGetKeywordFrequency      = "GetKeywordFrequency"
	MethodGetDepartmentStats       = "GetDepartmentStats"
)

// FullMethod returns the /service/method path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type CollaborationDashboardServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetFilter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetFilters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHospitalOverview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDivisionComparison(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListReviews(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleReviewSentiment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTeamRanking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSentimentDistribution(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetKeywordFrequency(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDepartmentStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedCollaborationDashboardServer()
}

// UnimplementedCollaborationDashboardServer must be embedded by servers.
type UnimplementedCollaborationDashboardServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedCollaborationDashboardServer) CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateSession)
}
func (UnimplementedCollaborationDashboardServer) CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCloseSession)
}
func (UnimplementedCollaborationDashboardServer) SetFilter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSetFilter)
}
func (UnimplementedCollaborationDashboardServer) ResetFilters(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodResetFilters)
}
func (UnimplementedCollaborationDashboardServer) GetHospitalOverview(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetHospitalOverview)
}
func (UnimplementedCollaborationDashboardServer) GetDivisionComparison(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetDivisionComparison)
}
func (UnimplementedCollaborationDashboardServer) ListReviews(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListReviews)
}
func (UnimplementedCollaborationDashboardServer) ToggleReviewSentiment(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodToggleReviewSentiment)
}
func (UnimplementedCollaborationDashboardServer) GetTeamRanking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetTeamRanking)
}
func (UnimplementedCollaborationDashboardServer) GetSentimentDistribution(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetSentimentDistribution)
}
func (UnimplementedCollaborationDashboardServer) GetKeywordFrequency(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetKeywordFrequency)
}
func (UnimplementedCollaborationDashboardServer) GetDepartmentStats(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetDepartmentStats)
}
func (UnimplementedCollaborationDashboardServer) mustEmbedUnimplementedCollaborationDashboardServer() {}

type serverCall func(CollaborationDashboardServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call serverCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CollaborationDashboardServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CollaborationDashboardServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var CollaborationDashboard_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CollaborationDashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodCreateSession, CollaborationDashboardServer.CreateSession),
		unaryHandler(MethodCloseSession, CollaborationDashboardServer.CloseSession),
		unaryHandler(MethodSetFilter, CollaborationDashboardServer.SetFilter),
		unaryHandler(MethodResetFilters, CollaborationDashboardServer.ResetFilters),
		unaryHandler(MethodGetHospitalOverview, CollaborationDashboardServer.GetHospitalOverview),
		unaryHandler(MethodGetDivisionComparison, CollaborationDashboardServer.GetDivisionComparison),
		unaryHandler(MethodListReviews, CollaborationDashboardServer.ListReviews),
		unaryHandler(MethodToggleReviewSentiment, CollaborationDashboardServer.ToggleReviewSentiment),
		unaryHandler(MethodGetTeamRanking, CollaborationDashboardServer.GetTeamRanking),
		unaryHandler(MethodGetSentimentDistribution, CollaborationDashboardServer.GetSentimentDistribution),
		unaryHandler(MethodGetKeywordFrequency, CollaborationDashboardServer.GetKeywordFrequency),
		unaryHandler(MethodGetDepartmentStats, CollaborationDashboardServer.GetDepartmentStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/v1/dashboard.proto",
}

func RegisterCollaborationDashboardServer(s grpc.ServiceRegistrar, srv CollaborationDashboardServer) {
	s.RegisterService(&CollaborationDashboard_ServiceDesc, srv)
}

// CollaborationDashboardClient calls the service; every method takes and
// returns a Struct payload.
type CollaborationDashboardClient struct {
	cc grpc.ClientConnInterface
}

func NewCollaborationDashboardClient(cc grpc.ClientConnInterface) *CollaborationDashboardClient {
	return &CollaborationDashboardClient{cc: cc}
}

// Call invokes method with in and returns the response payload.
func (c *CollaborationDashboardClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Do encodes req, invokes method and decodes the response into resp.
func (c *CollaborationDashboardClient) Do(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out, err := c.Call(ctx, method, in, opts...)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return Decode(out, resp)
}
