package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Script holds the schema definition for the Script entity: a rule binding
// a set of readable devices to a set of writable devices via executable
// code, identified by (namespace, name).
type Script struct {
	ent.Schema
}

// Fields of the Script.
func (Script) Fields() []ent.Field {
	return []ent.Field{
		field.String("namespace").
			NotEmpty(),
		field.String("name").
			NotEmpty(),
		field.Enum("script_type").
			Values("wasm", "js", "native", "standalone"),
		field.String("manifest_name"),
		field.String("manifest_version"),
		field.String("manifest_register").
			Optional().
			Nillable().
			Comment("Code-distribution endpoint override"),
		field.Time("last_run").
			Optional().
			Nillable(),
		field.Int("elapsed_time_us").
			Optional().
			Nillable().
			Comment("Duration of the last run, in microseconds"),
		field.Int32("status_code").
			Optional().
			Nillable(),
		field.String("status_message").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Script.
func (Script) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("env", EnvironmentVariable.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("execute_policy", ExecutePolicy.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("selectors", Selector.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Script.
func (Script) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("namespace", "name").
			Unique(),
	}
}
