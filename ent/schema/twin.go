package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Twin holds the schema definition for one device-property twin: a
// desired/reported pair plus metadata, matching spec.md's
// {property_name, desired, reported?} shape.
type Twin struct {
	ent.Schema
}

// Fields of the Twin.
func (Twin) Fields() []ent.Field {
	return []ent.Field{
		field.String("property_name").
			NotEmpty(),
		field.String("desired_value").
			Optional(),
		field.JSON("desired_metadata", map[string]string{}).
			Optional(),
		field.String("reported_value").
			Optional().
			Nillable(),
		field.JSON("reported_metadata", map[string]string{}).
			Optional(),
	}
}

// Edges of the Twin.
func (Twin) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("device", Device.Type).
			Ref("twins").
			Unique().
			Required(),
	}
}

// Indexes of the Twin.
func (Twin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("property_name"),
	}
}
