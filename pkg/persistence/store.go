// Package persistence defines the pluggable source-of-truth the Session
// Manager writes script-status and device-desired-state patches to. Spec §1
// treats persistence as an external collaborator: the core only needs the
// two patch operations below and the change-log read path in
// pkg/trigger/changelog. The pgx-backed implementation lives in store_pg.go.
package persistence

import (
	"context"

	"github.com/edgemesh/ruleengine/pkg/model"
)

// ScriptStatusPatch is applied against the Script identified by
// (namespace, name) on update_script_status.
type ScriptStatusPatch struct {
	LastRunMillis int64
	ElapsedMicros int64
	StatusCode    int32
	Message       string
}

// Store is the persistence-side contract the Session Manager writes
// through. A call may run more than one statement: PgStore goes through the
// pooled *sql.DB with no process-wide lock, LoadScript issues three
// queries, and PatchDeviceDesired runs one statement per property inside a
// single transaction.
type Store interface {
	// PatchScriptStatus applies status against the script at (namespace,
	// name). Scripts are looked up by name, not id — status_code belongs to
	// the most recent run regardless of which executor produced it.
	PatchScriptStatus(ctx context.Context, namespace, name string, status ScriptStatusPatch) error

	// PatchDeviceDesired merges desired into the device's twins at
	// (namespace, name): each key becomes a twin's desired value, leaving
	// reported untouched. Unknown properties are created.
	PatchDeviceDesired(ctx context.Context, namespace, name string, desired map[string]string) error

	// LoadScript reconstructs a full Script row (with its env, selectors,
	// and execute policy) by (namespace, name), used by the change-log
	// poller and bootstrap scan to feed the Reflector.
	LoadScript(ctx context.Context, namespace, name string) (model.Script, error)

	// LoadDevice reconstructs a full Device row (with its twins) by
	// (namespace, name).
	LoadDevice(ctx context.Context, namespace, name string) (model.Device, error)
}
