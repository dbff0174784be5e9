package executorsvc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/edgemesh/ruleengine/pkg/executorsvc/testharness"
	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/persistence"
	"github.com/edgemesh/ruleengine/pkg/version"
	"github.com/edgemesh/ruleengine/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeStore is an in-memory persistence.Store recording every patch applied,
// standing in for PgStore so these tests never touch a real database.
type fakeStore struct {
	mu             sync.Mutex
	scriptPatches  []string // "namespace/name" per PatchScriptStatus call
	desiredPatches map[string]map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{desiredPatches: make(map[string]map[string]string)}
}

func (s *fakeStore) PatchScriptStatus(_ context.Context, namespace, name string, _ persistence.ScriptStatusPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scriptPatches = append(s.scriptPatches, namespace+"/"+name)
	return nil
}

func (s *fakeStore) PatchDeviceDesired(_ context.Context, namespace, name string, desired map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desiredPatches[namespace+"/"+name] = desired
	return nil
}

func (s *fakeStore) LoadScript(context.Context, string, string) (model.Script, error) {
	return model.Script{}, status.Error(codes.Unimplemented, "not used by these tests")
}

func (s *fakeStore) LoadDevice(context.Context, string, string) (model.Device, error) {
	return model.Device{}, status.Error(codes.Unimplemented, "not used by these tests")
}

// testServer wires a SessionManager behind an in-process bufconn listener,
// grounded on the bufconn + grpc.NewServer pattern
// _examples/GoogleCloudPlatform-prometheus-engine/pkg/lease/lease_test.go uses.
type testServer struct {
	mgr      *SessionManager
	store    *fakeStore
	runQueue chan model.RunEnvelope
	stopCh   chan struct{}
	conn     *grpc.ClientConn
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := newFakeStore()
	runQueue := make(chan model.RunEnvelope, 10)
	stopCh := make(chan struct{})
	mgr := New(runQueue, store, stopCh, nil)

	grpcServer := grpc.NewServer()
	proto.RegisterExecutorServiceServer(grpcServer, mgr)

	listener := bufconn.Listen(1024 * 1024)
	go func() { _ = grpcServer.Serve(listener) }()
	t.Cleanup(grpcServer.Stop)

	dialer := func(context.Context, string) (net.Conn, error) { return listener.Dial() }
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testServer{mgr: mgr, store: store, runQueue: runQueue, stopCh: stopCh, conn: conn}
}

func TestSessionManager_DispatchAndReportStatus(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exec, err := testharness.Dial(ctx, ts.conn, "10.0.0.1:9000")
	require.NoError(t, err)
	require.NotZero(t, exec.ExecutorID)

	ts.runQueue <- model.RunEnvelope{
		Run:             model.RunCommand{ScriptID: 42, Manifest: model.Manifest{Name: "rule1", Version: "1.0.0"}},
		ScriptNamespace: "default",
		ScriptName:      "rule1",
	}

	cmd, err := exec.RequestNext()
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.EqualValues(t, 42, cmd.ScriptId)

	err = exec.ReportStatus(ctx, &proto.ScriptStatus{ScriptId: 42, Code: model.ExitOk})
	require.NoError(t, err)

	ts.store.mu.Lock()
	defer ts.store.mu.Unlock()
	assert.Equal(t, []string{"default/rule1"}, ts.store.scriptPatches)
}

func TestSessionManager_UpdateScriptStatus_RejectsUnknownScriptID(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exec, err := testharness.Dial(ctx, ts.conn, "10.0.0.1:9000")
	require.NoError(t, err)

	err = exec.ReportStatus(ctx, &proto.ScriptStatus{ScriptId: 999})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSessionManager_UpdateScriptStatus_TakesSessionOnce(t *testing.T) {
	// A ScriptSession is consumed by the first UpdateScriptStatus call; a
	// second report for the same script_id has nothing left to take.
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exec, err := testharness.Dial(ctx, ts.conn, "10.0.0.1:9000")
	require.NoError(t, err)

	ts.runQueue <- model.RunEnvelope{
		Run:             model.RunCommand{ScriptID: 7},
		ScriptNamespace: "default",
		ScriptName:      "rule1",
	}
	_, err = exec.RequestNext()
	require.NoError(t, err)

	require.NoError(t, exec.ReportStatus(ctx, &proto.ScriptStatus{ScriptId: 7}))

	err = exec.ReportStatus(ctx, &proto.ScriptStatus{ScriptId: 7})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSessionManager_UpdateDeviceDesired_AtMostOnce(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exec, err := testharness.Dial(ctx, ts.conn, "10.0.0.1:9000")
	require.NoError(t, err)

	ts.runQueue <- model.RunEnvelope{
		Run:             model.RunCommand{ScriptID: 3},
		ScriptNamespace: "default",
		ScriptName:      "rule1",
	}
	_, err = exec.RequestNext()
	require.NoError(t, err)

	client := proto.NewExecutorServiceClient(ts.conn)
	_, err = client.UpdateDeviceDesired(ctx, &proto.UpdateDevice{
		ScriptId: 3,
		Name:     "relay1",
		Desired:  map[string]string{"on": "true"},
		Qos:      int32(model.QoSAtMostOnce),
	})
	require.NoError(t, err)

	ts.store.mu.Lock()
	defer ts.store.mu.Unlock()
	assert.Equal(t, map[string]string{"on": "true"}, ts.store.desiredPatches["default/relay1"])
}

func TestSessionManager_UpdateDeviceDesired_AtLeastOnceUnimplemented(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exec, err := testharness.Dial(ctx, ts.conn, "10.0.0.1:9000")
	require.NoError(t, err)

	ts.runQueue <- model.RunEnvelope{Run: model.RunCommand{ScriptID: 5}, ScriptNamespace: "default", ScriptName: "rule1"}
	_, err = exec.RequestNext()
	require.NoError(t, err)

	client := proto.NewExecutorServiceClient(ts.conn)
	_, err = client.UpdateDeviceDesired(ctx, &proto.UpdateDevice{
		ScriptId: 5,
		Name:     "relay1",
		Qos:      int32(model.QoSAtLeastOnce),
	})
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestSessionManager_Session_RejectsVersionMismatch(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := proto.NewExecutorServiceClient(ts.conn)
	badCtx := metadata.AppendToOutgoingContext(ctx, "re-version", "0.0.1")
	stream, err := client.Session(badCtx)
	require.NoError(t, err) // the stream itself opens fine; rejection surfaces on first Recv

	require.NoError(t, stream.Send(&proto.ClientMessage{Code: proto.ClientCode_CONNECT}))
	_, err = stream.Recv()
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSessionManager_Session_RejectsMissingVersionMetadata(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := proto.NewExecutorServiceClient(ts.conn)
	stream, err := client.Session(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.Send(&proto.ClientMessage{Code: proto.ClientCode_CONNECT}))
	_, err = stream.Recv()
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSessionManager_Stop_SendsServerExitDisconnect(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := proto.NewExecutorServiceClient(ts.conn)
	ctx = metadata.AppendToOutgoingContext(ctx, "re-version", version.ProtocolVersion)
	stream, err := client.Session(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.Send(&proto.ClientMessage{Code: proto.ClientCode_CONNECT}))
	connected, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, proto.ServerFrameKind_CONNECTED, connected.Kind)

	// The executor asks for work while the run queue is empty, then the
	// supervisor stops. Whichever select sees stopCh first (the session loop
	// or dispatchNext), the last frame is a SERVER_EXIT Disconnect, not a
	// Script.
	require.NoError(t, stream.Send(&proto.ClientMessage{Code: proto.ClientCode_CONTINUE}))
	close(ts.stopCh)

	frame, err := stream.Recv()
	require.NoError(t, err)
	assert.Nil(t, frame.Script)
	require.Equal(t, proto.ServerFrameKind_DISCONNECT, frame.Kind)
	assert.Equal(t, proto.DisconnectReason_SERVER_EXIT, frame.Disconnect.Reason)
}

func TestSessionManager_ClientDisconnect_ReceivesClientExitReason(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := proto.NewExecutorServiceClient(ts.conn)
	ctx = metadata.AppendToOutgoingContext(ctx, "re-version", version.ProtocolVersion)
	stream, err := client.Session(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.Send(&proto.ClientMessage{Code: proto.ClientCode_CONNECT}))
	connected, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, proto.ServerFrameKind_CONNECTED, connected.Kind)

	require.NoError(t, stream.Send(&proto.ClientMessage{Code: proto.ClientCode_DISCONNECT}))
	reply, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, proto.ServerFrameKind_DISCONNECT, reply.Kind)
	assert.Equal(t, proto.DisconnectReason_CLIENT_EXIT, reply.Disconnect.Reason)
}
