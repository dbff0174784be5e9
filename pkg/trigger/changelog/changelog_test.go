package changelog

import (
	"context"
	"testing"
	"time"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/persistence"
	"github.com/edgemesh/ruleengine/pkg/reflector"
	"github.com/edgemesh/ruleengine/pkg/resource"
	testdb "github.com/edgemesh/ruleengine/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_BootstrapAndPoll(t *testing.T) {
	client := testdb.NewTestClient(t)
	db := client.DB()
	store := persistence.NewPgStore(db)

	_, err := db.Exec(`INSERT INTO scripts (namespace, name, script_type, manifest_name, manifest_version)
		VALUES ('default', 'rule1', 'wasm', 'rule1', '1.0.0')`)
	require.NoError(t, err)

	r := reflector.New(nil)
	p := New(db, store, r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// bootstrap should pick up the pre-existing script.
	require.Eventually(t, func() bool {
		_, ok := r.LookupScript(resource.New[resource.Script]("default", "rule1"))
		return ok
	}, 2*time.Second, 50*time.Millisecond)

	_, err = db.Exec(`INSERT INTO scripts (namespace, name, script_type, manifest_name, manifest_version)
		VALUES ('default', 'rule2', 'wasm', 'rule2', '1.0.0')`)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := r.LookupScript(resource.New[resource.Script]("default", "rule2"))
		return ok
	}, 7*time.Second, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestPoller_AppliesDelete(t *testing.T) {
	client := testdb.NewTestClient(t)
	db := client.DB()
	store := persistence.NewPgStore(db)

	r := reflector.New(nil)
	r.AddScript(model.Script{Namespace: "default", Name: "rule1", Manifest: model.Manifest{Name: "rule1", Version: "1.0.0"}})

	p := New(db, store, r, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, p.bootstrap(ctx))

	_, err := db.Exec(`INSERT INTO scripts (namespace, name, script_type, manifest_name, manifest_version)
		VALUES ('default', 'rule1', 'wasm', 'rule1', '1.0.0')
		ON CONFLICT (namespace, name) DO NOTHING`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM scripts WHERE namespace = 'default' AND name = 'rule1'`)
	require.NoError(t, err)

	require.NoError(t, p.pollScripts(ctx))

	_, ok := r.LookupScript(resource.New[resource.Script]("default", "rule1"))
	assert.False(t, ok)
}
