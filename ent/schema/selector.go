package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Selector holds one alias binding of a Script's read or write selector.
// match_names and match_abilities are both optional per spec.md's
// {local_alias → resource_name} / {local_alias → ability_name} shape; which
// one is set is indicated by kind.
type Selector struct {
	ent.Schema
}

// Fields of the Selector.
func (Selector) Fields() []ent.Field {
	return []ent.Field{
		field.Enum("direction").
			Values("read", "write"),
		field.Enum("kind").
			Values("match_names", "match_abilities"),
		field.String("alias").
			NotEmpty(),
		field.String("target").
			NotEmpty().
			Comment("Device resource name, or ability name, depending on kind"),
	}
}

// Edges of the Selector.
func (Selector) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("script", Script.Type).
			Ref("selectors").
			Unique().
			Required(),
	}
}
