package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Device holds the schema definition for the Device entity.
//
// A Device is identified by (namespace, name) and carries a status built
// from an ordered sequence of twins. The core treats rows in this table as
// a read-only cache fed by the watch layer or the change-log poller; it
// never originates a Device write itself.
type Device struct {
	ent.Schema
}

// Fields of the Device.
func (Device) Fields() []ent.Field {
	return []ent.Field{
		field.String("namespace").
			NotEmpty(),
		field.String("name").
			NotEmpty(),
		field.String("device_model").
			Optional().
			Comment("Reference to the device-model this device implements"),
		field.String("node_binding").
			Optional().
			Comment("Predicate selecting the executor node this device is bound to"),
		field.String("protocol").
			Optional().
			Nillable().
			Comment("Optional protocol descriptor"),
	}
}

// Edges of the Device.
func (Device) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("twins", Twin.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Device.
func (Device) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("namespace", "name").
			Unique(),
	}
}
