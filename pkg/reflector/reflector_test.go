package reflector

import (
	"testing"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptWithReadSelector(namespace, name string, matchNames map[string]string) model.Script {
	return model.Script{
		Namespace:    namespace,
		Name:         name,
		ReadSelector: model.Selectors{MatchNames: matchNames},
		Manifest:     model.Manifest{Name: name, Version: "1.0.0"},
	}
}

func TestReflector_AddScript_PopulatesSelectorMap(t *testing.T) {
	r := New(nil)
	s := scriptWithReadSelector("default", "rule1", map[string]string{"t": "dht11"})
	r.AddScript(s)

	deviceIdx := resource.New[resource.Device]("default", "dht11")
	scripts := r.MapDeviceToScript(deviceIdx)
	require.Len(t, scripts, 1)
	assert.Equal(t, s.Index(), scripts[0])
}

func TestReflector_RemoveScript_ClearsSelectorMap(t *testing.T) {
	r := New(nil)
	s := scriptWithReadSelector("default", "rule1", map[string]string{"t": "dht11"})
	r.AddScript(s)
	r.RemoveScript(s.Index())

	deviceIdx := resource.New[resource.Device]("default", "dht11")
	assert.Empty(t, r.MapDeviceToScript(deviceIdx))

	_, ok := r.LookupScript(s.Index())
	assert.False(t, ok)
}

func TestReflector_RemoveAddConsistency(t *testing.T) {
	// Scenario 5: add_script(S), add_device(D matched by S), remove_script(S),
	// add_script(S) converges to the same SelectorMap state as a single
	// add_script(S) followed by add_device(D).
	deviceIdx := resource.New[resource.Device]("default", "dht11")
	s := scriptWithReadSelector("default", "rule1", map[string]string{"t": "dht11"})
	d := model.Device{Namespace: "default", Name: "dht11"}

	r1 := New(nil)
	r1.AddScript(s)
	r1.AddDevice(d)
	r1.RemoveScript(s.Index())
	r1.AddScript(s)

	r2 := New(nil)
	r2.AddScript(s)
	r2.AddDevice(d)

	assert.Equal(t, r2.MapDeviceToScript(deviceIdx), r1.MapDeviceToScript(deviceIdx))
}

func TestReflector_LookupReadable_SkipsAbsentDevices(t *testing.T) {
	r := New(nil)
	s := scriptWithReadSelector("default", "rule1", map[string]string{
		"t": "dht11",
		"u": "missing-device",
	})
	r.AddScript(s)

	reported := "42"
	r.AddDevice(model.Device{
		Namespace: "default",
		Name:      "dht11",
		Twins: []model.Twin{
			{PropertyName: "temperature", Reported: &model.TwinProperty{Value: reported}},
			{PropertyName: "humidity"}, // no reported value yet, excluded
		},
	})

	readable := r.LookupReadable(s)
	require.Contains(t, readable, "t")
	assert.Equal(t, "dht11", readable["t"].Name)
	assert.Equal(t, map[string]string{"temperature": "42"}, readable["t"].Status)
	assert.NotContains(t, readable, "u")
}

func TestReflector_LookupWritable_KeepsAbsentDevices(t *testing.T) {
	// Unlike LookupReadable, LookupWritable needs no live device data, so a
	// device that was never mirrored into the store (e.g. a write-only
	// device, or a race against the watch/change-log path) must still
	// appear in the result.
	s := model.Script{
		Namespace: "default",
		Name:      "rule1",
		WriteSelector: model.Selectors{MatchNames: map[string]string{
			"relay": "missing-device",
		}},
		Manifest: model.Manifest{Name: "rule1", Version: "1.0.0"},
	}

	r := New(nil)
	r.AddScript(s)

	writable := r.LookupWritable(s)
	require.Contains(t, writable, "relay")
	assert.Equal(t, "missing-device", writable["relay"].Name)
}

func TestReflector_RestartScripts_Idempotent(t *testing.T) {
	scripts := []model.Script{
		scriptWithReadSelector("default", "rule1", map[string]string{"t": "dht11"}),
		scriptWithReadSelector("default", "rule2", map[string]string{"u": "dht12"}),
	}

	once := New(nil)
	once.RestartScripts(scripts)

	twice := New(nil)
	twice.RestartScripts(scripts)
	twice.RestartScripts(scripts)

	for _, s := range scripts {
		_, ok := once.LookupScript(s.Index())
		assert.True(t, ok)
		_, ok = twice.LookupScript(s.Index())
		assert.True(t, ok)
	}
}
