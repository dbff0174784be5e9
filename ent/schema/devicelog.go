package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DeviceLog holds one row written by the trg_device_{insert,update,delete}
// and trg_twins_{insert,update,delete} triggers, mirroring EventLog for the
// Device side of the change-log.
type DeviceLog struct {
	ent.Schema
}

// Fields of the DeviceLog.
func (DeviceLog) Fields() []ent.Field {
	return []ent.Field{
		field.Int("device_id"),
		field.Enum("event_type").
			Values("Inserted", "Updated", "Deleted"),
		field.Time("event_time").
			Default(time.Now),
	}
}

// Indexes of the DeviceLog.
func (DeviceLog) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("event_time"),
	}
}
