package gameserver

import (
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"

	pb "github.com/cory-johannsen/giftrun/internal/gameserver/navv1"
)

// wireMessage converts a request or response to and from its giftrun.v1
// protobuf form.
type wireMessage interface {
	toProto(m protoreflect.Message)
	fromProto(m protoreflect.Message)
}

// LevelRequest names a running level.
type LevelRequest struct {
	LevelID string
}

func (r *LevelRequest) toProto(m protoreflect.Message) { pb.SetString(m, "level_id", r.LevelID) }

func (r *LevelRequest) fromProto(m protoreflect.Message) { r.LevelID = pb.String(m, "level_id") }

// ListLevelsRequest asks for every running level id.
type ListLevelsRequest struct{}

func (*ListLevelsRequest) toProto(protoreflect.Message) {}
func (*ListLevelsRequest) fromProto(protoreflect.Message) {}

// ListLevelsResponse lists the running level ids in sorted order.
type ListLevelsResponse struct {
	LevelIDs []string
}

func (r *ListLevelsResponse) toProto(m protoreflect.Message) {
	pb.SetStrings(m, "level_ids", r.LevelIDs)
}

func (r *ListLevelsResponse) fromProto(m protoreflect.Message) {
	r.LevelIDs = pb.Strings(m, "level_ids")
}

// TargetMessage describes one entry of a level's target set.
type TargetMessage struct {
	Index  int
	X      int
	Y      int
	Kind   string
	Active bool
}

func (t *TargetMessage) toProto(m protoreflect.Message) {
	pb.SetInt(m, "index", t.Index)
	pb.SetInt(m, "x", t.X)
	pb.SetInt(m, "y", t.Y)
	pb.SetString(m, "kind", t.Kind)
	pb.SetBool(m, "active", t.Active)
}

func (t *TargetMessage) fromProto(m protoreflect.Message) {
	t.Index = pb.Int(m, "index")
	t.X = pb.Int(m, "x")
	t.Y = pb.Int(m, "y")
	t.Kind = pb.String(m, "kind")
	t.Active = pb.Bool(m, "active")
}

// LevelResponse is the current state of a level's board. Rows and Code
// carry the avatar and pursuer spawn tiles.
type LevelResponse struct {
	LevelID         string
	Name            string
	Width           int
	Height          int
	Rows            []string
	Code            string
	Targets         []TargetMessage
	Rebuilds        int
	RemainingGifts  int
	PendingRestores int
	// NextRestoreAt is when the earliest broken brick returns; nil when none
	// is pending.
	NextRestoreAt *time.Time
}

func (r *LevelResponse) toProto(m protoreflect.Message) {
	pb.SetString(m, "level_id", r.LevelID)
	pb.SetString(m, "name", r.Name)
	pb.SetInt(m, "width", r.Width)
	pb.SetInt(m, "height", r.Height)
	pb.SetStrings(m, "rows", r.Rows)
	pb.SetString(m, "code", r.Code)
	for i := range r.Targets {
		r.Targets[i].toProto(pb.AppendMessage(m, "targets"))
	}
	pb.SetInt(m, "rebuilds", r.Rebuilds)
	pb.SetInt(m, "remaining_gifts", r.RemainingGifts)
	pb.SetInt(m, "pending_restores", r.PendingRestores)
	if r.NextRestoreAt != nil {
		pb.SetTime(m, "next_restore_at", *r.NextRestoreAt)
	}
}

func (r *LevelResponse) fromProto(m protoreflect.Message) {
	r.LevelID = pb.String(m, "level_id")
	r.Name = pb.String(m, "name")
	r.Width = pb.Int(m, "width")
	r.Height = pb.Int(m, "height")
	r.Rows = pb.Strings(m, "rows")
	r.Code = pb.String(m, "code")
	targets := pb.Messages(m, "targets")
	r.Targets = make([]TargetMessage, len(targets))
	for i, t := range targets {
		r.Targets[i].fromProto(t)
	}
	r.Rebuilds = pb.Int(m, "rebuilds")
	r.RemainingGifts = pb.Int(m, "remaining_gifts")
	r.PendingRestores = pb.Int(m, "pending_restores")
	r.NextRestoreAt = nil
	if at, ok := pb.Time(m, "next_restore_at"); ok {
		r.NextRestoreAt = &at
	}
}

// PointRequest addresses one tile of a level.
type PointRequest struct {
	LevelID string
	X       int
	Y       int
}

func (r *PointRequest) toProto(m protoreflect.Message) {
	pb.SetString(m, "level_id", r.LevelID)
	pb.SetInt(m, "x", r.X)
	pb.SetInt(m, "y", r.Y)
}

func (r *PointRequest) fromProto(m protoreflect.Message) {
	r.LevelID = pb.String(m, "level_id")
	r.X = pb.Int(m, "x")
	r.Y = pb.Int(m, "y")
}

// NearestTargetResponse carries the active target closest to a tile.
type NearestTargetResponse struct {
	Found  bool
	Target TargetMessage
}

func (r *NearestTargetResponse) toProto(m protoreflect.Message) {
	pb.SetBool(m, "found", r.Found)
	if r.Found {
		r.Target.toProto(pb.MutableMessage(m, "target"))
	}
}

func (r *NearestTargetResponse) fromProto(m protoreflect.Message) {
	r.Found = pb.Bool(m, "found")
	r.Target.fromProto(pb.Message(m, "target"))
}

// HintRequest asks for the first step from a tile toward a target.
type HintRequest struct {
	LevelID string
	Target  int
	X       int
	Y       int
}

func (r *HintRequest) toProto(m protoreflect.Message) {
	pb.SetString(m, "level_id", r.LevelID)
	pb.SetInt(m, "target", r.Target)
	pb.SetInt(m, "x", r.X)
	pb.SetInt(m, "y", r.Y)
}

func (r *HintRequest) fromProto(m protoreflect.Message) {
	r.LevelID = pb.String(m, "level_id")
	r.Target = pb.Int(m, "target")
	r.X = pb.Int(m, "x")
	r.Y = pb.Int(m, "y")
}

// HintResponse is one hint field cell. Distance is only meaningful when
// Reachable is set.
type HintResponse struct {
	Move      string
	Reachable bool
	Distance  float64
}

func (r *HintResponse) toProto(m protoreflect.Message) {
	pb.SetString(m, "move", r.Move)
	pb.SetBool(m, "reachable", r.Reachable)
	pb.SetFloat(m, "distance", r.Distance)
}

func (r *HintResponse) fromProto(m protoreflect.Message) {
	r.Move = pb.String(m, "move")
	r.Reachable = pb.Bool(m, "reachable")
	r.Distance = pb.Float(m, "distance")
}

// BreakBrickResponse reports the opened brick. RestoreAt is set when the
// level restores bricks.
type BreakBrickResponse struct {
	RestoreAt *time.Time
	Rebuilds  int
}

func (r *BreakBrickResponse) toProto(m protoreflect.Message) {
	if r.RestoreAt != nil {
		pb.SetTime(m, "restore_at", *r.RestoreAt)
	}
	pb.SetInt(m, "rebuilds", r.Rebuilds)
}

func (r *BreakBrickResponse) fromProto(m protoreflect.Message) {
	r.RestoreAt = nil
	if at, ok := pb.Time(m, "restore_at"); ok {
		r.RestoreAt = &at
	}
	r.Rebuilds = pb.Int(m, "rebuilds")
}

// CollectGiftResponse reports the gifts left after a collection.
type CollectGiftResponse struct {
	RemainingGifts int
}

func (r *CollectGiftResponse) toProto(m protoreflect.Message) {
	pb.SetInt(m, "remaining_gifts", r.RemainingGifts)
}

func (r *CollectGiftResponse) fromProto(m protoreflect.Message) {
	r.RemainingGifts = pb.Int(m, "remaining_gifts")
}

// IntentMessage is a set of movement requests.
type IntentMessage struct {
	Left       bool
	Right      bool
	Up         bool
	Down       bool
	BreakLeft  bool
	BreakRight bool
}

func (i *IntentMessage) toProto(m protoreflect.Message) {
	pb.SetBool(m, "left", i.Left)
	pb.SetBool(m, "right", i.Right)
	pb.SetBool(m, "up", i.Up)
	pb.SetBool(m, "down", i.Down)
	pb.SetBool(m, "break_left", i.BreakLeft)
	pb.SetBool(m, "break_right", i.BreakRight)
}

func (i *IntentMessage) fromProto(m protoreflect.Message) {
	i.Left = pb.Bool(m, "left")
	i.Right = pb.Bool(m, "right")
	i.Up = pb.Bool(m, "up")
	i.Down = pb.Bool(m, "down")
	i.BreakLeft = pb.Bool(m, "break_left")
	i.BreakRight = pb.Bool(m, "break_right")
}

// CommandAvatarRequest replaces the avatar's intent.
type CommandAvatarRequest struct {
	LevelID string
	Intent  IntentMessage
}

func (r *CommandAvatarRequest) toProto(m protoreflect.Message) {
	pb.SetString(m, "level_id", r.LevelID)
	r.Intent.toProto(pb.MutableMessage(m, "intent"))
}

func (r *CommandAvatarRequest) fromProto(m protoreflect.Message) {
	r.LevelID = pb.String(m, "level_id")
	r.Intent.fromProto(pb.Message(m, "intent"))
}

// MoveAgentRequest places an agent on a tile.
type MoveAgentRequest struct {
	LevelID string
	AgentID string
	X       int
	Y       int
}

func (r *MoveAgentRequest) toProto(m protoreflect.Message) {
	pb.SetString(m, "level_id", r.LevelID)
	pb.SetString(m, "agent_id", r.AgentID)
	pb.SetInt(m, "x", r.X)
	pb.SetInt(m, "y", r.Y)
}

func (r *MoveAgentRequest) fromProto(m protoreflect.Message) {
	r.LevelID = pb.String(m, "level_id")
	r.AgentID = pb.String(m, "agent_id")
	r.X = pb.Int(m, "x")
	r.Y = pb.Int(m, "y")
}

// AgentMessage is a snapshot of one agent. Goal is -1 when the agent has
// none.
type AgentMessage struct {
	ID     string
	Avatar bool
	X      int
	Y      int
	Intent IntentMessage
	Goal   int
	Source string
	Move   string
}

func (a *AgentMessage) toProto(m protoreflect.Message) {
	pb.SetString(m, "id", a.ID)
	pb.SetBool(m, "avatar", a.Avatar)
	pb.SetInt(m, "x", a.X)
	pb.SetInt(m, "y", a.Y)
	a.Intent.toProto(pb.MutableMessage(m, "intent"))
	pb.SetInt(m, "goal", a.Goal)
	pb.SetString(m, "source", a.Source)
	pb.SetString(m, "move", a.Move)
}

func (a *AgentMessage) fromProto(m protoreflect.Message) {
	a.ID = pb.String(m, "id")
	a.Avatar = pb.Bool(m, "avatar")
	a.X = pb.Int(m, "x")
	a.Y = pb.Int(m, "y")
	a.Intent.fromProto(pb.Message(m, "intent"))
	a.Goal = pb.Int(m, "goal")
	a.Source = pb.String(m, "source")
	a.Move = pb.String(m, "move")
}

// AgentResponse carries a single agent.
type AgentResponse struct {
	Agent AgentMessage
}

func (r *AgentResponse) toProto(m protoreflect.Message) {
	r.Agent.toProto(pb.MutableMessage(m, "agent"))
}

func (r *AgentResponse) fromProto(m protoreflect.Message) {
	r.Agent.fromProto(pb.Message(m, "agent"))
}

// IntentsResponse lists every agent of a level, avatar first.
type IntentsResponse struct {
	Agents []AgentMessage
}

func (r *IntentsResponse) toProto(m protoreflect.Message) {
	for i := range r.Agents {
		r.Agents[i].toProto(pb.AppendMessage(m, "agents"))
	}
}

func (r *IntentsResponse) fromProto(m protoreflect.Message) {
	agents := pb.Messages(m, "agents")
	r.Agents = make([]AgentMessage, len(agents))
	for i, a := range agents {
		r.Agents[i].fromProto(a)
	}
}
