// Package changelog implements the polled change-log trigger source (spec
// §4.2 item 5): an optional persistence-backed adapter that periodically
// reads EventLog/DeviceLog rows newer than the last poll and replays them
// against the Reflector, interchangeable with the resource-watch path.
package changelog

import (
	"context"
	stdsql "database/sql"
	"log/slog"
	"time"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/persistence"
	"github.com/edgemesh/ruleengine/pkg/reflector"
)

const pollInterval = 5 * time.Second

// EventType mirrors the trg_*_{insert,update,delete} trigger's event_type
// column.
type EventType string

const (
	EventInserted EventType = "Inserted"
	EventUpdated  EventType = "Updated"
	EventDeleted  EventType = "Deleted"
)

// Poller periodically scans EventLog and DeviceLog and applies their rows
// to the Reflector.
type Poller struct {
	db        *stdsql.DB
	store     persistence.Store
	reflector *reflector.Reflector
	log       *slog.Logger

	lastScriptPoll time.Time
	lastDevicePoll time.Time
}

// New builds a Poller. db is used directly for the log-table scans;
// store is used to reconstruct full Script/Device rows named by a log row.
func New(db *stdsql.DB, store persistence.Store, r *reflector.Reflector, log *slog.Logger) *Poller {
	if log == nil {
		log = slog.Default()
	}
	return &Poller{db: db, store: store, reflector: r, log: log}
}

// Run performs the one-time bootstrap scan of all existing scripts, then
// polls every 5s until ctx is done. last_polled advances to "now" after
// every poll regardless of whether any rows were found.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.bootstrap(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.pollScripts(ctx); err != nil {
				p.log.Error("changelog: script poll failed", "error", err)
			}
			if err := p.pollDevices(ctx); err != nil {
				p.log.Error("changelog: device poll failed", "error", err)
			}
		}
	}
}

func (p *Poller) bootstrap(ctx context.Context) error {
	rows, err := p.db.QueryContext(ctx, `SELECT namespace, name FROM scripts`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var namespace, name string
		if err := rows.Scan(&namespace, &name); err != nil {
			return err
		}
		script, err := p.store.LoadScript(ctx, namespace, name)
		if err != nil {
			p.log.Error("changelog: bootstrap load script failed", "namespace", namespace, "name", name, "error", err)
			continue
		}
		p.reflector.AddScript(script)
	}
	p.lastScriptPoll = time.Now()
	p.lastDevicePoll = time.Now()
	return rows.Err()
}

func (p *Poller) pollScripts(ctx context.Context) error {
	polledAt := time.Now()
	rows, err := p.db.QueryContext(ctx, `
		SELECT l.script_id, l.event_type, s.namespace, s.name
		FROM event_log l
		LEFT JOIN scripts s ON s.id = l.script_id
		WHERE l.event_time > $1
		ORDER BY l.event_time`,
		p.lastScriptPoll,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var scriptID int64
		var eventType string
		var namespace, name stdsql.NullString
		if err := rows.Scan(&scriptID, &eventType, &namespace, &name); err != nil {
			return err
		}
		p.applyScriptEvent(ctx, EventType(eventType), namespace, name)
	}
	p.lastScriptPoll = polledAt
	return rows.Err()
}

func (p *Poller) applyScriptEvent(ctx context.Context, eventType EventType, namespace, name stdsql.NullString) {
	if eventType == EventDeleted {
		if namespace.Valid && name.Valid {
			p.reflector.RemoveScript(model.ScriptIndex{Namespace: namespace.String, Name: name.String})
		}
		return
	}
	if !namespace.Valid || !name.Valid {
		return // script row gone before we could reconstruct it
	}
	script, err := p.store.LoadScript(ctx, namespace.String, name.String)
	if err != nil {
		p.log.Error("changelog: load script failed", "namespace", namespace.String, "name", name.String, "error", err)
		return
	}
	p.reflector.AddScript(script)
}

func (p *Poller) pollDevices(ctx context.Context) error {
	polledAt := time.Now()
	rows, err := p.db.QueryContext(ctx, `
		SELECT l.device_id, l.event_type, d.namespace, d.name
		FROM device_log l
		LEFT JOIN devices d ON d.id = l.device_id
		WHERE l.event_time > $1
		ORDER BY l.event_time`,
		p.lastDevicePoll,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var deviceID int64
		var eventType string
		var namespace, name stdsql.NullString
		if err := rows.Scan(&deviceID, &eventType, &namespace, &name); err != nil {
			return err
		}
		p.applyDeviceEvent(ctx, EventType(eventType), namespace, name)
	}
	p.lastDevicePoll = polledAt
	return rows.Err()
}

func (p *Poller) applyDeviceEvent(ctx context.Context, eventType EventType, namespace, name stdsql.NullString) {
	if eventType == EventDeleted {
		if namespace.Valid && name.Valid {
			p.reflector.RemoveDevice(model.DeviceIndex{Namespace: namespace.String, Name: name.String})
		}
		return
	}
	if !namespace.Valid || !name.Valid {
		return
	}
	device, err := p.store.LoadDevice(ctx, namespace.String, name.String)
	if err != nil {
		p.log.Error("changelog: load device failed", "namespace", namespace.String, "name", name.String, "error", err)
		return
	}
	p.reflector.AddDevice(device)
}
