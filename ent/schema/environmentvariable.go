package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// EnvironmentVariable holds one key/value pair of a Script's env mapping.
type EnvironmentVariable struct {
	ent.Schema
}

// Fields of the EnvironmentVariable.
func (EnvironmentVariable) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty(),
		field.String("value"),
	}
}

// Edges of the EnvironmentVariable.
func (EnvironmentVariable) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("script", Script.Type).
			Ref("env").
			Unique().
			Required(),
	}
}
