package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// ExecutePolicy holds the schema definition for a Script's execution policy:
// when it runs and under which delivery guarantee.
type ExecutePolicy struct {
	ent.Schema
}

// Fields of the ExecutePolicy.
func (ExecutePolicy) Fields() []ent.Field {
	return []ent.Field{
		field.Bool("read_change").
			Default(false),
		field.Bool("webhook").
			Default(false),
		field.String("cron").
			Optional(),
		field.Enum("qos").
			Values("OnlyOnce", "AtMostOnce", "AtLeastOnce").
			Default("AtMostOnce"),
	}
}

// Edges of the ExecutePolicy.
func (ExecutePolicy) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("script", Script.Type).
			Ref("execute_policy").
			Unique().
			Required(),
	}
}
