package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"

	pb "github.com/cory-johannsen/giftrun/internal/gameserver/navv1"
)

// NavigationServer is the server API of the giftrun.v1.Navigation service.
type NavigationServer interface {
	ListLevels(context.Context, *ListLevelsRequest) (*ListLevelsResponse, error)
	Level(context.Context, *LevelRequest) (*LevelResponse, error)
	NearestTarget(context.Context, *PointRequest) (*NearestTargetResponse, error)
	Hint(context.Context, *HintRequest) (*HintResponse, error)
	BreakBrick(context.Context, *PointRequest) (*BreakBrickResponse, error)
	CollectGift(context.Context, *PointRequest) (*CollectGiftResponse, error)
	CommandAvatar(context.Context, *CommandAvatarRequest) (*AgentResponse, error)
	MoveAgent(context.Context, *MoveAgentRequest) (*AgentResponse, error)
	Intents(context.Context, *LevelRequest) (*IntentsResponse, error)
}

// unary builds the method descriptor of one request/response call. The
// request is decoded as its giftrun.v1 message and converted before the
// interceptor sees it; the response is converted back for the proto codec.
func unary[Req, Resp any, PReq interface {
	*Req
	wireMessage
}, PResp interface {
	*Resp
	wireMessage
}](name string, call func(NavigationServer, context.Context, PReq) (PResp, error)) grpc.MethodDesc {
	md := pb.Method(name)
	fullMethod := "/" + pb.ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			wire := dynamicpb.NewMessage(md.Input())
			if err := dec(wire); err != nil {
				return nil, err
			}
			in := PReq(new(Req))
			in.fromProto(wire)
			s := srv.(NavigationServer)
			handle := func(ctx context.Context, req any) (any, error) {
				out, err := call(s, ctx, req.(PReq))
				if err != nil {
					return nil, err
				}
				reply := dynamicpb.NewMessage(md.Output())
				out.toProto(reply)
				return reply, nil
			}
			if interceptor == nil {
				return handle(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handle)
		},
	}
}

// NavigationServiceDesc describes giftrun.v1.Navigation for grpc.Server.
var NavigationServiceDesc = grpc.ServiceDesc{
	ServiceName: pb.ServiceName,
	HandlerType: (*NavigationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListLevels", NavigationServer.ListLevels),
		unary("Level", NavigationServer.Level),
		unary("NearestTarget", NavigationServer.NearestTarget),
		unary("Hint", NavigationServer.Hint),
		unary("BreakBrick", NavigationServer.BreakBrick),
		unary("CollectGift", NavigationServer.CollectGift),
		unary("CommandAvatar", NavigationServer.CommandAvatar),
		unary("MoveAgent", NavigationServer.MoveAgent),
		unary("Intents", NavigationServer.Intents),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: pb.FilePath,
}

// RegisterNavigationServer registers srv on s.
func RegisterNavigationServer(s grpc.ServiceRegistrar, srv NavigationServer) {
	s.RegisterService(&NavigationServiceDesc, srv)
}

// NavigationClient calls giftrun.v1.Navigation.
type NavigationClient struct {
	cc grpc.ClientConnInterface
}

// NewNavigationClient returns a client over cc.
func NewNavigationClient(cc grpc.ClientConnInterface) *NavigationClient {
	return &NavigationClient{cc: cc}
}

func invoke[Resp any, PResp interface {
	*Resp
	wireMessage
}](ctx context.Context, cc grpc.ClientConnInterface, method string, in wireMessage, opts []grpc.CallOption) (PResp, error) {
	md := pb.Method(method)
	req := dynamicpb.NewMessage(md.Input())
	in.toProto(req)
	reply := dynamicpb.NewMessage(md.Output())
	if err := cc.Invoke(ctx, "/"+pb.ServiceName+"/"+method, req, reply, opts...); err != nil {
		return nil, err
	}
	out := PResp(new(Resp))
	out.fromProto(reply)
	return out, nil
}

func (c *NavigationClient) ListLevels(ctx context.Context, in *ListLevelsRequest, opts ...grpc.CallOption) (*ListLevelsResponse, error) {
	return invoke[ListLevelsResponse](ctx, c.cc, "ListLevels", in, opts)
}

func (c *NavigationClient) Level(ctx context.Context, in *LevelRequest, opts ...grpc.CallOption) (*LevelResponse, error) {
	return invoke[LevelResponse](ctx, c.cc, "Level", in, opts)
}

func (c *NavigationClient) NearestTarget(ctx context.Context, in *PointRequest, opts ...grpc.CallOption) (*NearestTargetResponse, error) {
	return invoke[NearestTargetResponse](ctx, c.cc, "NearestTarget", in, opts)
}

func (c *NavigationClient) Hint(ctx context.Context, in *HintRequest, opts ...grpc.CallOption) (*HintResponse, error) {
	return invoke[HintResponse](ctx, c.cc, "Hint", in, opts)
}

func (c *NavigationClient) BreakBrick(ctx context.Context, in *PointRequest, opts ...grpc.CallOption) (*BreakBrickResponse, error) {
	return invoke[BreakBrickResponse](ctx, c.cc, "BreakBrick", in, opts)
}

func (c *NavigationClient) CollectGift(ctx context.Context, in *PointRequest, opts ...grpc.CallOption) (*CollectGiftResponse, error) {
	return invoke[CollectGiftResponse](ctx, c.cc, "CollectGift", in, opts)
}

func (c *NavigationClient) CommandAvatar(ctx context.Context, in *CommandAvatarRequest, opts ...grpc.CallOption) (*AgentResponse, error) {
	return invoke[AgentResponse](ctx, c.cc, "CommandAvatar", in, opts)
}

func (c *NavigationClient) MoveAgent(ctx context.Context, in *MoveAgentRequest, opts ...grpc.CallOption) (*AgentResponse, error) {
	return invoke[AgentResponse](ctx, c.cc, "MoveAgent", in, opts)
}

func (c *NavigationClient) Intents(ctx context.Context, in *LevelRequest, opts ...grpc.CallOption) (*IntentsResponse, error) {
	return invoke[IntentsResponse](ctx, c.cc, "Intents", in, opts)
}
