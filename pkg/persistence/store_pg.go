package persistence

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"github.com/edgemesh/ruleengine/pkg/model"
)

// PgStore is a Store backed by the same *sql.DB the database package opens,
// queried directly via database/sql rather than a generated ent client (see
// DESIGN.md for why no generated ent package ships in this tree).
type PgStore struct {
	db *stdsql.DB
}

// NewPgStore wraps db in a Store.
func NewPgStore(db *stdsql.DB) *PgStore {
	return &PgStore{db: db}
}

// PatchScriptStatus implements Store.
func (s *PgStore) PatchScriptStatus(ctx context.Context, namespace, name string, patch ScriptStatusPatch) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scripts
		SET last_run = to_timestamp($1 / 1000.0),
		    elapsed_time_us = $2,
		    status_code = $3,
		    status_message = $4,
		    updated_at = now()
		WHERE namespace = $5 AND name = $6`,
		patch.LastRunMillis, patch.ElapsedMicros, patch.StatusCode, patch.Message,
		namespace, name,
	)
	if err != nil {
		return fmt.Errorf("patch script status %s/%s: %w", namespace, name, err)
	}
	return nil
}

// PatchDeviceDesired implements Store.
func (s *PgStore) PatchDeviceDesired(ctx context.Context, namespace, name string, desired map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("patch device desired %s/%s: begin: %w", namespace, name, err)
	}
	defer func() { _ = tx.Rollback() }()

	var deviceID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM devices WHERE namespace = $1 AND name = $2`, namespace, name,
	).Scan(&deviceID)
	if err != nil {
		return fmt.Errorf("patch device desired %s/%s: lookup: %w", namespace, name, err)
	}

	for prop, value := range desired {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO twins (device_id, property_name, desired_value)
			VALUES ($1, $2, $3)
			ON CONFLICT (device_id, property_name)
			DO UPDATE SET desired_value = EXCLUDED.desired_value`,
			deviceID, prop, value,
		)
		if err != nil {
			return fmt.Errorf("patch device desired %s/%s: twin %s: %w", namespace, name, prop, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("patch device desired %s/%s: commit: %w", namespace, name, err)
	}
	return nil
}

// LoadScript implements Store.
func (s *PgStore) LoadScript(ctx context.Context, namespace, name string) (model.Script, error) {
	var (
		out                                          model.Script
		scriptType, manifestName, manifestVersion    string
		manifestRegister                             stdsql.NullString
		cron, qos                                    stdsql.NullString
		readChange, webhook                          stdsql.NullBool
		scriptID                                     int64
	)
	out.Namespace, out.Name = namespace, name

	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.script_type, s.manifest_name, s.manifest_version, s.manifest_register,
		       p.read_change, p.webhook, p.cron, p.qos
		FROM scripts s
		LEFT JOIN execute_policies p ON p.script_id = s.id
		WHERE s.namespace = $1 AND s.name = $2`,
		namespace, name,
	).Scan(&scriptID, &scriptType, &manifestName, &manifestVersion, &manifestRegister,
		&readChange, &webhook, &cron, &qos)
	if err != nil {
		return out, fmt.Errorf("load script %s/%s: %w", namespace, name, err)
	}

	out.Manifest = model.Manifest{
		ScriptType: parseScriptType(scriptType),
		Name:       manifestName,
		Version:    manifestVersion,
	}
	if manifestRegister.Valid {
		out.Manifest.Register = &manifestRegister.String
	}
	out.ExecutePolicy = model.ExecutePolicy{
		ReadChange: readChange.Bool,
		Webhook:    webhook.Bool,
		Cron:       cron.String,
		QoS:        parseQoS(qos.String),
	}

	out.Env = make(map[string]string)
	envRows, err := s.db.QueryContext(ctx, `SELECT key, value FROM environment_variables WHERE script_id = $1`, scriptID)
	if err != nil {
		return out, fmt.Errorf("load script %s/%s: env: %w", namespace, name, err)
	}
	defer envRows.Close()
	for envRows.Next() {
		var k, v string
		if err := envRows.Scan(&k, &v); err != nil {
			return out, fmt.Errorf("load script %s/%s: env scan: %w", namespace, name, err)
		}
		out.Env[k] = v
	}

	out.ReadSelector = model.Selectors{MatchNames: map[string]string{}, MatchAbilities: map[string]string{}}
	out.WriteSelector = model.Selectors{MatchNames: map[string]string{}, MatchAbilities: map[string]string{}}
	selRows, err := s.db.QueryContext(ctx, `SELECT direction, kind, alias, target FROM selectors WHERE script_id = $1`, scriptID)
	if err != nil {
		return out, fmt.Errorf("load script %s/%s: selectors: %w", namespace, name, err)
	}
	defer selRows.Close()
	for selRows.Next() {
		var direction, kind, alias, target string
		if err := selRows.Scan(&direction, &kind, &alias, &target); err != nil {
			return out, fmt.Errorf("load script %s/%s: selector scan: %w", namespace, name, err)
		}
		var sel *model.Selectors
		if direction == "read" {
			sel = &out.ReadSelector
		} else {
			sel = &out.WriteSelector
		}
		if kind == "match_names" {
			sel.MatchNames[alias] = target
		} else {
			sel.MatchAbilities[alias] = target
		}
	}

	return out, nil
}

// LoadDevice implements Store.
func (s *PgStore) LoadDevice(ctx context.Context, namespace, name string) (model.Device, error) {
	var (
		out        model.Device
		deviceID   int64
		protocol   stdsql.NullString
	)
	out.Namespace, out.Name = namespace, name

	err := s.db.QueryRowContext(ctx, `
		SELECT id, device_model, node_binding, protocol
		FROM devices WHERE namespace = $1 AND name = $2`,
		namespace, name,
	).Scan(&deviceID, &out.DeviceModel, &out.NodeBinding, &protocol)
	if err != nil {
		return out, fmt.Errorf("load device %s/%s: %w", namespace, name, err)
	}
	if protocol.Valid {
		out.Protocol = &protocol.String
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT property_name, desired_value, reported_value
		FROM twins WHERE device_id = $1`, deviceID)
	if err != nil {
		return out, fmt.Errorf("load device %s/%s: twins: %w", namespace, name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var prop, desired string
		var reported stdsql.NullString
		if err := rows.Scan(&prop, &desired, &reported); err != nil {
			return out, fmt.Errorf("load device %s/%s: twin scan: %w", namespace, name, err)
		}
		t := model.Twin{PropertyName: prop, Desired: model.TwinProperty{Value: desired}}
		if reported.Valid {
			t.Reported = &model.TwinProperty{Value: reported.String}
		}
		out.Twins = append(out.Twins, t)
	}

	return out, nil
}

func parseScriptType(s string) model.ScriptType {
	switch s {
	case "wasm":
		return model.ScriptTypeWASM
	case "js":
		return model.ScriptTypeJS
	case "native":
		return model.ScriptTypeNative
	case "standalone":
		return model.ScriptTypeStandalone
	default:
		return model.ScriptTypeWASM
	}
}

func parseQoS(s string) model.QoS {
	switch s {
	case "OnlyOnce":
		return model.QoSOnlyOnce
	case "AtLeastOnce":
		return model.QoSAtLeastOnce
	default:
		return model.QoSAtMostOnce
	}
}
