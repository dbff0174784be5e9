// Package executorsvc implements the Session Manager: the bidirectional
// streaming RPC server described in spec §4.4 that multiplexes run-commands
// across connected executors and processes their status/device-write
// callbacks.
package executorsvc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/edgemesh/ruleengine/pkg/idgen"
	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/persistence"
	"github.com/edgemesh/ruleengine/pkg/version"
	"github.com/edgemesh/ruleengine/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// SessionManager implements proto.ExecutorServiceServer. It owns the
// executor map and the ScriptSession map; both are guarded by the same
// mutex, each access locking it for that one map operation.
type SessionManager struct {
	proto.UnimplementedExecutorServiceServer

	executorIDs *idgen.Generator
	runQueue    <-chan model.RunEnvelope
	store       persistence.Store
	stopCh      <-chan struct{}
	log         *slog.Logger

	mu             sync.Mutex
	executors      map[uint32]model.ExecutorSession
	scriptSessions map[uint32]model.ScriptSession
}

// New builds a SessionManager. runQueue is the Scheduler's output channel;
// stopCh is closed by the Supervisor when it flips to Stop.
func New(runQueue <-chan model.RunEnvelope, store persistence.Store, stopCh <-chan struct{}, log *slog.Logger) *SessionManager {
	if log == nil {
		log = slog.Default()
	}
	return &SessionManager{
		executorIDs:    idgen.NewGenerator(),
		runQueue:       runQueue,
		store:          store,
		stopCh:         stopCh,
		log:            log,
		executors:      make(map[uint32]model.ExecutorSession),
		scriptSessions: make(map[uint32]model.ScriptSession),
	}
}

// Session implements the bidirectional streaming RPC. See spec §4.4 for the
// state machine this follows.
func (m *SessionManager) Session(stream proto.ExecutorService_SessionServer) error {
	if err := checkProtocolVersion(stream.Context()); err != nil {
		return err
	}

	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if first.Code != proto.ClientCode_CONNECT {
		return status.Error(codes.InvalidArgument, "first frame on a session must be Connect")
	}

	remoteAddr := ""
	if first.Info != nil {
		remoteAddr = first.Info.RemoteAddr
	}

	executorID := m.executorIDs.Next()
	m.registerExecutor(executorID, remoteAddr)
	defer m.removeExecutor(executorID)

	if err := stream.Send(&proto.ServerMessage{
		Kind:      proto.ServerFrameKind_CONNECTED,
		Connected: &proto.Connected{ExecutorId: executorID},
	}); err != nil {
		return err
	}
	m.log.Info("executor connected", "executor_id", executorID, "remote_addr", remoteAddr)

	frames := make(chan *proto.ClientMessage)
	recvErrs := make(chan error, 1)
	go func() {
		for {
			f, err := stream.Recv()
			if err != nil {
				recvErrs <- err
				return
			}
			frames <- f
		}
	}()

	for {
		select {
		case <-m.stopCh:
			return m.closeWithReason(stream, executorID, proto.DisconnectReason_SERVER_EXIT, nil)

		case err := <-recvErrs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err

		case f := <-frames:
			switch f.Code {
			case proto.ClientCode_CONTINUE:
				if err := m.dispatchNext(stream, executorID); err != nil {
					return err
				}

			case proto.ClientCode_DISCONNECT:
				return m.closeWithReason(stream, executorID, proto.DisconnectReason_CLIENT_EXIT, nil)

			case proto.ClientCode_CONNECT:
				return status.Error(codes.InvalidArgument, "unexpected Connect frame mid-stream")
			}
		}
	}
}

// dispatchNext implements the pull-model hand-off: it blocks until either a
// RunCommand is available or the supervisor signals stop, records the
// ScriptSession before sending so at-most-once dispatch holds even if the
// send itself fails partway, then forwards the Script frame.
func (m *SessionManager) dispatchNext(stream proto.ExecutorService_SessionServer, executorID uint32) error {
	select {
	case <-m.stopCh:
		return m.closeWithReason(stream, executorID, proto.DisconnectReason_SERVER_EXIT, nil)

	case env, ok := <-m.runQueue:
		if !ok {
			return status.Error(codes.Internal, "run queue closed")
		}
		m.recordScriptSession(model.ScriptSession{
			ScriptID:        env.Run.ScriptID,
			ScriptNamespace: env.ScriptNamespace,
			ScriptName:      env.ScriptName,
			ExecutorID:      executorID,
		})
		return stream.Send(&proto.ServerMessage{
			Kind:   proto.ServerFrameKind_SCRIPT,
			Script: toProtoRunCommand(env.Run),
		})
	}
}

func (m *SessionManager) closeWithReason(stream proto.ExecutorService_SessionServer, executorID uint32, reason proto.DisconnectReason, cause error) error {
	sendErr := stream.Send(&proto.ServerMessage{
		Kind:       proto.ServerFrameKind_DISCONNECT,
		Disconnect: &proto.Disconnect{Reason: reason},
	})
	m.log.Info("executor disconnecting", "executor_id", executorID, "reason", reason)
	if cause != nil {
		return cause
	}
	return sendErr
}

// UpdateScriptStatus implements the update_script_status unary callback.
func (m *SessionManager) UpdateScriptStatus(ctx context.Context, req *proto.ScriptStatus) (*emptypb.Empty, error) {
	session, ok := m.takeScriptSession(req.ScriptId)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "no active script session for script_id %d", req.ScriptId)
	}

	patch := persistence.ScriptStatusPatch{
		StatusCode: req.Code,
		Message:    req.Message,
	}
	if req.Start != nil {
		patch.LastRunMillis = req.Start.AsTime().UnixMilli()
	}
	if req.Duration != nil {
		patch.ElapsedMicros = req.Duration.AsDuration().Microseconds()
	}

	if err := m.store.PatchScriptStatus(ctx, session.ScriptNamespace, session.ScriptName, patch); err != nil {
		m.log.Error("persist script status failed", "script_id", req.ScriptId, "error", err)
		return nil, status.Error(codes.Internal, "failed to persist script status")
	}
	return &emptypb.Empty{}, nil
}

// UpdateDeviceDesired implements the update_device_desired unary callback.
func (m *SessionManager) UpdateDeviceDesired(ctx context.Context, req *proto.UpdateDevice) (*emptypb.Empty, error) {
	session, ok := m.lookupScriptSession(req.ScriptId)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "no active script session for script_id %d", req.ScriptId)
	}

	switch model.QoS(req.Qos) {
	case model.QoSAtMostOnce:
		if err := m.store.PatchDeviceDesired(ctx, session.ScriptNamespace, req.Name, req.Desired); err != nil {
			m.log.Error("persist device desired failed", "script_id", req.ScriptId, "device", req.Name, "error", err)
			return nil, status.Error(codes.Internal, "failed to persist device desired state")
		}
		return &emptypb.Empty{}, nil

	case model.QoSAtLeastOnce, model.QoSOnlyOnce:
		return nil, status.Errorf(codes.Unimplemented, "QoS %s is not implemented", model.QoS(req.Qos))

	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown QoS %d", req.Qos)
	}
}

func checkProtocolVersion(ctx context.Context) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.InvalidArgument, "missing stream metadata")
	}
	values := md.Get("re-version")
	if len(values) == 0 || values[0] != version.ProtocolVersion {
		return status.Errorf(codes.InvalidArgument, "re-version mismatch: got %v, want %s", values, version.ProtocolVersion)
	}
	return nil
}

func (m *SessionManager) registerExecutor(id uint32, remoteAddr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executors[id] = model.ExecutorSession{
		ExecutorID: id,
		RemoteAddr: remoteAddr,
		State:      model.ExecutorStateReady,
	}
}

func (m *SessionManager) removeExecutor(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.executors, id)
}

func (m *SessionManager) recordScriptSession(s model.ScriptSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scriptSessions[s.ScriptID] = s
}

func (m *SessionManager) lookupScriptSession(scriptID uint32) (model.ScriptSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scriptSessions[scriptID]
	return s, ok
}

func (m *SessionManager) takeScriptSession(scriptID uint32) (model.ScriptSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scriptSessions[scriptID]
	if ok {
		delete(m.scriptSessions, scriptID)
	}
	return s, ok
}

// ExecutorCount reports how many executors are currently connected.
func (m *SessionManager) ExecutorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.executors)
}
