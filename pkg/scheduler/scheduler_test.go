package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/reflector"
	"github.com/edgemesh/ruleengine/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_DispatchesRunCommand(t *testing.T) {
	// Scenario 2 (device-triggered dispatch): read_selector {"t": "dht11"},
	// a reported temperature of 42 yields readable {"t": {name, status}}.
	r := reflector.New(nil)
	script := model.Script{
		Namespace:    "default",
		Name:         "rule1",
		ReadSelector: model.Selectors{MatchNames: map[string]string{"t": "dht11"}},
		Manifest:     model.Manifest{Name: "rule1", Version: "1.0.0"},
	}
	r.AddScript(script)
	r.AddDevice(model.Device{
		Namespace: "default",
		Name:      "dht11",
		Twins: []model.Twin{
			{PropertyName: "temperature", Reported: &model.TwinProperty{Value: "42"}},
		},
	})

	triggers := make(chan model.ScriptIndex, 1)
	runQueue := make(chan model.RunEnvelope, 1)
	s := New(r, triggers, runQueue, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	triggers <- resource.New[resource.Script]("default", "rule1")

	select {
	case env := <-runQueue:
		require.Contains(t, env.Run.Readable, "t")
		assert.Equal(t, "dht11", env.Run.Readable["t"].Name)
		assert.Equal(t, map[string]string{"temperature": "42"}, env.Run.Readable["t"].Status)
		assert.Equal(t, "rule1", env.ScriptName)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for run command")
	}
}

func TestScheduler_DropsNotFoundTrigger(t *testing.T) {
	r := reflector.New(nil)
	triggers := make(chan model.ScriptIndex, 1)
	runQueue := make(chan model.RunEnvelope, 1)
	s := New(r, triggers, runQueue, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	triggers <- resource.New[resource.Script]("default", "missing")

	select {
	case <-runQueue:
		t.Fatal("expected no run command for a missing script")
	case <-time.After(200 * time.Millisecond):
	}
	cancel()
	<-done
}
