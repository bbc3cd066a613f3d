// Package navv1 holds the protobuf schema of the giftrun.v1.Navigation
// service. The file descriptor is assembled at init and registered with
// protoregistry.GlobalFiles, so messages are carried as dynamicpb values.
package navv1

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	// FilePath is the registry path of the navigation schema.
	FilePath = "giftrun/v1/navigation.proto"
	// Package is the protobuf package of every navigation message.
	Package = "giftrun.v1"
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = Package + ".Navigation"
)

var (
	// File is the navigation schema.
	File protoreflect.FileDescriptor
	// Service is the Navigation service descriptor.
	Service protoreflect.ServiceDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("navv1: building %s: %v", FilePath, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("navv1: registering %s: %v", FilePath, err))
	}
	File = fd
	Service = fd.Services().ByName("Navigation")
}

// Method returns the descriptor of the named Navigation method.
//
// Precondition: name must be a method of the schema.
func Method(name string) protoreflect.MethodDescriptor {
	md := Service.Methods().ByName(protoreflect.Name(name))
	if md == nil {
		panic(fmt.Sprintf("navv1: unknown method %q", name))
	}
	return md
}

// New returns an empty message of the named schema type.
//
// Precondition: name must be a message of the schema.
func New(name string) *dynamicpb.Message {
	md := File.Messages().ByName(protoreflect.Name(name))
	if md == nil {
		panic(fmt.Sprintf("navv1: unknown message %q", name))
	}
	return dynamicpb.NewMessage(md)
}

type fieldType = descriptorpb.FieldDescriptorProto_Type

const (
	tString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	tInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	tBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	tDouble  = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	tMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

func field(name string, typ fieldType) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:  proto.String(name),
		Type:  typ.Enum(),
		Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

// ref declares a message-typed field; typeName is fully qualified.
func ref(name, typeName string) *descriptorpb.FieldDescriptorProto {
	f := field(name, tMessage)
	f.TypeName = proto.String("." + typeName)
	return f
}

// message numbers fields in declaration order starting at 1.
func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	for i, f := range fields {
		f.Number = proto.Int32(int32(i + 1))
	}
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func rpc(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + Package + "." + in),
		OutputType: proto.String("." + Package + "." + out),
	}
}

func fileProto() *descriptorpb.FileDescriptorProto {
	local := func(name string) string { return Package + "." + name }
	timestamp := string((&timestamppb.Timestamp{}).ProtoReflect().Descriptor().FullName())
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(FilePath),
		Package:    proto.String(Package),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/timestamp.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			message("LevelRequest", field("level_id", tString)),
			message("ListLevelsRequest"),
			message("ListLevelsResponse", repeated(field("level_ids", tString))),
			message("Target",
				field("index", tInt32),
				field("x", tInt32),
				field("y", tInt32),
				field("kind", tString),
				field("active", tBool),
			),
			message("LevelResponse",
				field("level_id", tString),
				field("name", tString),
				field("width", tInt32),
				field("height", tInt32),
				repeated(field("rows", tString)),
				field("code", tString),
				repeated(ref("targets", local("Target"))),
				field("rebuilds", tInt32),
				field("remaining_gifts", tInt32),
				field("pending_restores", tInt32),
				ref("next_restore_at", timestamp),
			),
			message("PointRequest",
				field("level_id", tString),
				field("x", tInt32),
				field("y", tInt32),
			),
			message("NearestTargetResponse",
				field("found", tBool),
				ref("target", local("Target")),
			),
			message("HintRequest",
				field("level_id", tString),
				field("target", tInt32),
				field("x", tInt32),
				field("y", tInt32),
			),
			message("HintResponse",
				field("move", tString),
				field("reachable", tBool),
				field("distance", tDouble),
			),
			message("BreakBrickResponse",
				ref("restore_at", timestamp),
				field("rebuilds", tInt32),
			),
			message("CollectGiftResponse", field("remaining_gifts", tInt32)),
			message("Intent",
				field("left", tBool),
				field("right", tBool),
				field("up", tBool),
				field("down", tBool),
				field("break_left", tBool),
				field("break_right", tBool),
			),
			message("CommandAvatarRequest",
				field("level_id", tString),
				ref("intent", local("Intent")),
			),
			message("MoveAgentRequest",
				field("level_id", tString),
				field("agent_id", tString),
				field("x", tInt32),
				field("y", tInt32),
			),
			message("Agent",
				field("id", tString),
				field("avatar", tBool),
				field("x", tInt32),
				field("y", tInt32),
				ref("intent", local("Intent")),
				field("goal", tInt32),
				field("source", tString),
				field("move", tString),
			),
			message("AgentResponse", ref("agent", local("Agent"))),
			message("IntentsResponse", repeated(ref("agents", local("Agent")))),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Navigation"),
			Method: []*descriptorpb.MethodDescriptorProto{
				rpc("ListLevels", "ListLevelsRequest", "ListLevelsResponse"),
				rpc("Level", "LevelRequest", "LevelResponse"),
				rpc("NearestTarget", "PointRequest", "NearestTargetResponse"),
				rpc("Hint", "HintRequest", "HintResponse"),
				rpc("BreakBrick", "PointRequest", "BreakBrickResponse"),
				rpc("CollectGift", "PointRequest", "CollectGiftResponse"),
				rpc("CommandAvatar", "CommandAvatarRequest", "AgentResponse"),
				rpc("MoveAgent", "MoveAgentRequest", "AgentResponse"),
				rpc("Intents", "LevelRequest", "IntentsResponse"),
			},
		}},
	}
}
