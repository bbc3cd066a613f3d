package gameserver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/giftrun/internal/game/agent"
	"github.com/cory-johannsen/giftrun/internal/game/world"
)

// NavigationService answers navigation queries against the running games.
type NavigationService struct {
	registry *Registry
	now      func() time.Time
}

// ServiceOption configures a NavigationService.
type ServiceOption func(*NavigationService)

// WithClock replaces time.Now as the source of brick break times.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *NavigationService) { s.now = now }
}

// NewNavigationService creates the service.
//
// Precondition: registry must not be nil.
func NewNavigationService(registry *Registry, opts ...ServiceOption) *NavigationService {
	s := &NavigationService{registry: registry, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ NavigationServer = (*NavigationService)(nil)

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnknownLevel), errors.Is(err, ErrUnknownAgent):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, world.ErrUnknownTarget), errors.Is(err, world.ErrOutOfBounds):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, world.ErrNotBrick), errors.Is(err, world.ErrNotGift):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *NavigationService) game(levelID string) (*Game, error) {
	g, err := s.registry.Get(levelID)
	return g, toStatus(err)
}

// ListLevels returns every running level id.
func (s *NavigationService) ListLevels(_ context.Context, _ *ListLevelsRequest) (*ListLevelsResponse, error) {
	return &ListLevelsResponse{LevelIDs: s.registry.IDs()}, nil
}

// Level returns the board, its code and the target set.
func (s *NavigationService) Level(_ context.Context, req *LevelRequest) (*LevelResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	w := g.World()
	code, err := w.Code()
	if err != nil {
		return nil, toStatus(err)
	}
	width, height := w.Size()
	targets := w.Targets()
	msgs := make([]TargetMessage, len(targets))
	for i, t := range targets {
		msgs[i] = TargetMessage{Index: i, X: t.X, Y: t.Y, Kind: t.Kind.String(), Active: t.Active}
	}
	resp := &LevelResponse{
		LevelID:         w.LevelID(),
		Name:            w.Name(),
		Width:           width,
		Height:          height,
		Rows:            w.Board().Rows(),
		Code:            code,
		Targets:         msgs,
		Rebuilds:        w.Rebuilds(),
		RemainingGifts:  w.RemainingGifts(),
		PendingRestores: w.PendingRestores(),
	}
	if at, ok := w.NextRestore(); ok {
		resp.NextRestoreAt = &at
	}
	return resp, nil
}

// NearestTarget returns the active target closest to the tile.
func (s *NavigationService) NearestTarget(_ context.Context, req *PointRequest) (*NearestTargetResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	ti, t, ok := g.World().NearestActiveTarget(req.X, req.Y)
	if !ok {
		return &NearestTargetResponse{}, nil
	}
	return &NearestTargetResponse{
		Found:  true,
		Target: TargetMessage{Index: ti, X: t.X, Y: t.Y, Kind: t.Kind.String(), Active: t.Active},
	}, nil
}

// Hint returns the first step from the tile toward the target.
func (s *NavigationService) Hint(_ context.Context, req *HintRequest) (*HintResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	cell, err := g.World().Lookup(req.Target, req.X, req.Y)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &HintResponse{Move: cell.Move.String(), Reachable: cell.Move.Resolved()}
	if resp.Reachable {
		resp.Distance = cell.Distance
	}
	return resp, nil
}

// BreakBrick opens a brick; it restores after the level's delay.
func (s *NavigationService) BreakBrick(_ context.Context, req *PointRequest) (*BreakBrickResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := g.BreakBrick(req.X, req.Y, now); err != nil {
		return nil, toStatus(err)
	}
	resp := &BreakBrickResponse{Rebuilds: g.World().Rebuilds()}
	if d := g.World().RestoreDelay(); d > 0 {
		at := now.Add(d)
		resp.RestoreAt = &at
	}
	return resp, nil
}

// CollectGift removes a gift tile.
func (s *NavigationService) CollectGift(_ context.Context, req *PointRequest) (*CollectGiftResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	if err := g.World().CollectGift(req.X, req.Y); err != nil {
		return nil, toStatus(err)
	}
	return &CollectGiftResponse{RemainingGifts: g.World().RemainingGifts()}, nil
}

// CommandAvatar replaces the avatar's intent.
func (s *NavigationService) CommandAvatar(_ context.Context, req *CommandAvatarRequest) (*AgentResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	g.Command(intentFromMessage(req.Intent))
	st, _ := g.Agent(g.AvatarID())
	return &AgentResponse{Agent: agentMessage(st)}, nil
}

// MoveAgent places an agent on a tile.
func (s *NavigationService) MoveAgent(_ context.Context, req *MoveAgentRequest) (*AgentResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	if err := g.MoveAgent(req.AgentID, req.X, req.Y); err != nil {
		return nil, toStatus(err)
	}
	st, ok := g.Agent(req.AgentID)
	if !ok {
		return nil, toStatus(ErrUnknownAgent)
	}
	return &AgentResponse{Agent: agentMessage(st)}, nil
}

// Intents returns every agent with its current intent.
func (s *NavigationService) Intents(_ context.Context, req *LevelRequest) (*IntentsResponse, error) {
	g, err := s.game(req.LevelID)
	if err != nil {
		return nil, err
	}
	states := g.Agents()
	resp := &IntentsResponse{Agents: make([]AgentMessage, len(states))}
	for i, st := range states {
		resp.Agents[i] = agentMessage(st)
	}
	return resp, nil
}

func intentFromMessage(m IntentMessage) agent.Intent {
	return agent.Intent{
		Left:       m.Left,
		Right:      m.Right,
		Up:         m.Up,
		Down:       m.Down,
		BreakLeft:  m.BreakLeft,
		BreakRight: m.BreakRight,
	}
}

func intentMessage(i agent.Intent) IntentMessage {
	return IntentMessage{
		Left:       i.Left,
		Right:      i.Right,
		Up:         i.Up,
		Down:       i.Down,
		BreakLeft:  i.BreakLeft,
		BreakRight: i.BreakRight,
	}
}

func agentMessage(st AgentState) AgentMessage {
	return AgentMessage{
		ID:     st.ID,
		Avatar: st.Avatar,
		X:      st.Position.X,
		Y:      st.Position.Y,
		Intent: intentMessage(st.Intent),
		Goal:   st.Decision.Goal,
		Source: st.Decision.Source.String(),
		Move:   st.Decision.Move.String(),
	}
}

// LoggingInterceptor logs every unary call with its outcome code.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Stringer("code", code),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch code {
		case codes.OK:
			logger.Debug("rpc", fields...)
		case codes.Internal, codes.Unknown:
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		default:
			logger.Info("rpc rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
