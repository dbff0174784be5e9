// Package proto holds the executor-facing wire messages and the
// ExecutorService gRPC contract described in spec §6. These are hand-written
// legacy-style protobuf messages: each implements only Reset/String/
// ProtoMessage plus protobuf struct tags, and relies on
// google.golang.org/protobuf's backward-compatible reflection path rather
// than a protoc-generated descriptor. There is no .proto source in this
// tree to regenerate from; editing a message here means editing its
// counterpart on the executor side by hand too.
//
// ProtoReflect on every message defers to protoadapt.MessageV2Of, which
// builds its reflection info from the protobuf struct tags at first use.
// That's what lets grpc's default codec, which only accepts
// google.golang.org/protobuf's v2 proto.Message interface, marshal a
// struct that was never run through protoc-gen-go.
package proto

import (
	"fmt"

	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ClientCode is the oneof discriminant of a ClientMessage.
type ClientCode int32

const (
	ClientCode_CONNECT ClientCode = iota
	ClientCode_CONTINUE
	ClientCode_DISCONNECT
)

// ClientInfo accompanies the first Connect frame of a stream.
type ClientInfo struct {
	RemoteAddr string `protobuf:"bytes,1,opt,name=remote_addr,json=remoteAddr,proto3" json:"remote_addr,omitempty"`
}

func (m *ClientInfo) Reset()         { *m = ClientInfo{} }
func (m *ClientInfo) String() string { return fmt.Sprintf("ClientInfo{remote_addr:%q}", m.RemoteAddr) }
func (*ClientInfo) ProtoMessage()    {}
func (m *ClientInfo) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// ClientMessage is one frame sent by an executor on its stream.
type ClientMessage struct {
	Code ClientCode  `protobuf:"varint,1,opt,name=code,proto3,enum=ruleengine.v1.ClientCode" json:"code,omitempty"`
	Info *ClientInfo `protobuf:"bytes,2,opt,name=info,proto3" json:"info,omitempty"`
}

func (m *ClientMessage) Reset()         { *m = ClientMessage{} }
func (m *ClientMessage) String() string { return fmt.Sprintf("ClientMessage{code:%d}", m.Code) }
func (*ClientMessage) ProtoMessage()    {}
func (m *ClientMessage) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// ServerFrameKind is the oneof discriminant of a ServerMessage.
type ServerFrameKind int32

const (
	ServerFrameKind_CONNECTED ServerFrameKind = iota
	ServerFrameKind_DISCONNECT
	ServerFrameKind_SCRIPT
)

// DisconnectReason explains why the server is closing a stream.
type DisconnectReason int32

const (
	DisconnectReason_CLIENT_EXIT DisconnectReason = iota
	DisconnectReason_SERVER_EXIT
	DisconnectReason_VERSION_MISMATCH
	DisconnectReason_INTERNAL_ERROR
)

// Connected is the first frame of every stream reaching Ready.
type Connected struct {
	ExecutorId uint32 `protobuf:"varint,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
}

func (m *Connected) Reset()         { *m = Connected{} }
func (m *Connected) String() string { return fmt.Sprintf("Connected{executor_id:%d}", m.ExecutorId) }
func (*Connected) ProtoMessage()    {}
func (m *Connected) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// Disconnect is always the last frame of a stream, if any.
type Disconnect struct {
	Reason DisconnectReason `protobuf:"varint,1,opt,name=reason,proto3,enum=ruleengine.v1.DisconnectReason" json:"reason,omitempty"`
}

func (m *Disconnect) Reset()         { *m = Disconnect{} }
func (m *Disconnect) String() string { return fmt.Sprintf("Disconnect{reason:%d}", m.Reason) }
func (*Disconnect) ProtoMessage()    {}
func (m *Disconnect) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// ReadDevice is one entry of a RunCommand's readable mapping.
type ReadDevice struct {
	Name   string            `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Status map[string]string `protobuf:"bytes,2,rep,name=status,proto3" json:"status,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
}

func (m *ReadDevice) Reset()         { *m = ReadDevice{} }
func (m *ReadDevice) String() string { return fmt.Sprintf("ReadDevice{name:%q}", m.Name) }
func (*ReadDevice) ProtoMessage()    {}
func (m *ReadDevice) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// WriteDevice is one entry of a RunCommand's writable mapping.
type WriteDevice struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *WriteDevice) Reset()         { *m = WriteDevice{} }
func (m *WriteDevice) String() string { return fmt.Sprintf("WriteDevice{name:%q}", m.Name) }
func (*WriteDevice) ProtoMessage()    {}
func (m *WriteDevice) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// Manifest mirrors model.Manifest on the wire.
type Manifest struct {
	ScriptType int32  `protobuf:"varint,1,opt,name=script_type,json=scriptType,proto3" json:"script_type,omitempty"`
	Name       string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Version    string `protobuf:"bytes,3,opt,name=version,proto3" json:"version,omitempty"`
	Register   string `protobuf:"bytes,4,opt,name=register,proto3" json:"register,omitempty"`
}

func (m *Manifest) Reset()         { *m = Manifest{} }
func (m *Manifest) String() string { return fmt.Sprintf("Manifest{name:%q,version:%q}", m.Name, m.Version) }
func (*Manifest) ProtoMessage()    {}
func (m *Manifest) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// RunCommand is the dispatch envelope a Script frame carries.
type RunCommand struct {
	ScriptId   uint32                 `protobuf:"varint,1,opt,name=script_id,json=scriptId,proto3" json:"script_id,omitempty"`
	Manifest   *Manifest              `protobuf:"bytes,2,opt,name=manifest,proto3" json:"manifest,omitempty"`
	Readable   map[string]*ReadDevice `protobuf:"bytes,3,rep,name=readable,proto3" json:"readable,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	Writable   map[string]*WriteDevice `protobuf:"bytes,4,rep,name=writable,proto3" json:"writable,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	Env        map[string]string      `protobuf:"bytes,5,rep,name=env,proto3" json:"env,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	DefaultQos int32                  `protobuf:"varint,6,opt,name=default_qos,json=defaultQos,proto3" json:"default_qos,omitempty"`
}

func (m *RunCommand) Reset()         { *m = RunCommand{} }
func (m *RunCommand) String() string { return fmt.Sprintf("RunCommand{script_id:%d}", m.ScriptId) }
func (*RunCommand) ProtoMessage()    {}
func (m *RunCommand) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// ServerMessage is one frame sent by the server on an executor's stream.
// Exactly one of Connected, Disconnect, or Script is set, mirroring the
// source's tagged-union ServerMessage.
type ServerMessage struct {
	Kind       ServerFrameKind `protobuf:"varint,1,opt,name=kind,proto3,enum=ruleengine.v1.ServerFrameKind" json:"kind,omitempty"`
	Connected  *Connected      `protobuf:"bytes,2,opt,name=connected,proto3" json:"connected,omitempty"`
	Disconnect *Disconnect     `protobuf:"bytes,3,opt,name=disconnect,proto3" json:"disconnect,omitempty"`
	Script     *RunCommand     `protobuf:"bytes,4,opt,name=script,proto3" json:"script,omitempty"`
}

func (m *ServerMessage) Reset()         { *m = ServerMessage{} }
func (m *ServerMessage) String() string { return fmt.Sprintf("ServerMessage{kind:%d}", m.Kind) }
func (*ServerMessage) ProtoMessage()    {}
func (m *ServerMessage) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// ScriptStatus is the update_script_status unary request.
type ScriptStatus struct {
	ScriptId uint32                 `protobuf:"varint,1,opt,name=script_id,json=scriptId,proto3" json:"script_id,omitempty"`
	Start    *timestamppb.Timestamp `protobuf:"bytes,2,opt,name=start,proto3" json:"start,omitempty"`
	Duration *durationpb.Duration   `protobuf:"bytes,3,opt,name=duration,proto3" json:"duration,omitempty"`
	Code     int32                  `protobuf:"varint,4,opt,name=code,proto3" json:"code,omitempty"`
	Message  string                 `protobuf:"bytes,5,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *ScriptStatus) Reset()         { *m = ScriptStatus{} }
func (m *ScriptStatus) String() string { return fmt.Sprintf("ScriptStatus{script_id:%d,code:%d}", m.ScriptId, m.Code) }
func (*ScriptStatus) ProtoMessage()    {}
func (m *ScriptStatus) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }

// UpdateDevice is the update_device_desired unary request.
type UpdateDevice struct {
	ScriptId uint32            `protobuf:"varint,1,opt,name=script_id,json=scriptId,proto3" json:"script_id,omitempty"`
	Name     string            `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Desired  map[string]string `protobuf:"bytes,3,rep,name=desired,proto3" json:"desired,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	Qos      int32             `protobuf:"varint,4,opt,name=qos,proto3" json:"qos,omitempty"`
}

func (m *UpdateDevice) Reset()         { *m = UpdateDevice{} }
func (m *UpdateDevice) String() string { return fmt.Sprintf("UpdateDevice{script_id:%d,name:%q}", m.ScriptId, m.Name) }
func (*UpdateDevice) ProtoMessage()    {}
func (m *UpdateDevice) ProtoReflect() protoreflect.Message { return protoadapt.MessageV2Of(m).ProtoReflect() }
