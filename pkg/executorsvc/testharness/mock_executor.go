// Package testharness provides a minimal scriptable executor client for
// exercising the Session Manager in tests, grounded on the standalone mock
// executor the original implementation shipped for manual protocol testing.
// It is a test helper, not a binary: nothing under cmd/ wraps it.
package testharness

import (
	"context"

	"github.com/edgemesh/ruleengine/pkg/version"
	"github.com/edgemesh/ruleengine/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// MockExecutor drives one Session stream against a live ExecutorServiceClient,
// recording every Script frame it is handed.
type MockExecutor struct {
	client     proto.ExecutorServiceClient
	stream     proto.ExecutorService_SessionClient
	ExecutorID uint32
	Received   []*proto.RunCommand
}

// Dial opens a Session stream, sends the initial Connect frame, and waits
// for the Connected reply.
func Dial(ctx context.Context, conn grpc.ClientConnInterface, remoteAddr string) (*MockExecutor, error) {
	client := proto.NewExecutorServiceClient(conn)
	ctx = metadata.AppendToOutgoingContext(ctx, "re-version", version.ProtocolVersion)

	stream, err := client.Session(ctx)
	if err != nil {
		return nil, err
	}
	if err := stream.Send(&proto.ClientMessage{
		Code: proto.ClientCode_CONNECT,
		Info: &proto.ClientInfo{RemoteAddr: remoteAddr},
	}); err != nil {
		return nil, err
	}

	reply, err := stream.Recv()
	if err != nil {
		return nil, err
	}

	var executorID uint32
	if reply.Connected != nil {
		executorID = reply.Connected.ExecutorId
	}

	return &MockExecutor{
		client:     client,
		stream:     stream,
		ExecutorID: executorID,
	}, nil
}

// RequestNext sends Continue and returns the RunCommand carried by the next
// frame the server sends. It blocks until that frame arrives; a Disconnect
// frame yields a nil RunCommand and no error.
func (m *MockExecutor) RequestNext() (*proto.RunCommand, error) {
	if err := m.stream.Send(&proto.ClientMessage{Code: proto.ClientCode_CONTINUE}); err != nil {
		return nil, err
	}
	frame, err := m.stream.Recv()
	if err != nil {
		return nil, err
	}
	m.Received = append(m.Received, frame.Script)
	return frame.Script, nil
}

// Disconnect sends a client-initiated Disconnect and closes the stream.
func (m *MockExecutor) Disconnect() error {
	if err := m.stream.Send(&proto.ClientMessage{Code: proto.ClientCode_DISCONNECT}); err != nil {
		return err
	}
	return m.stream.CloseSend()
}

// ReportStatus calls update_script_status for a completed run.
func (m *MockExecutor) ReportStatus(ctx context.Context, status *proto.ScriptStatus) error {
	_, err := m.client.UpdateScriptStatus(ctx, status)
	return err
}
