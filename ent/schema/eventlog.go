package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EventLog holds one row written by the trg_script_{insert,update,delete}
// triggers, consumed only by the change-log poller (pkg/trigger/changelog)
// where event_time > last_polled.
type EventLog struct {
	ent.Schema
}

// Fields of the EventLog.
func (EventLog) Fields() []ent.Field {
	return []ent.Field{
		field.Int("script_id"),
		field.Enum("event_type").
			Values("Inserted", "Updated", "Deleted"),
		field.Time("event_time").
			Default(time.Now),
	}
}

// Indexes of the EventLog.
func (EventLog) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("event_time"),
	}
}
