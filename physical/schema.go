package physical

import (
	"github.com/fennelq/oraclescan/engine"
)

// SchemaField describes one column a datasource exposes to the engine.
type SchemaField struct {
	Name string
	Type engine.Type
}

type Schema struct {
	Fields []SchemaField
}

func NewSchema(fields []SchemaField) Schema {
	return Schema{Fields: fields}
}

func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i := range s.Fields {
		names[i] = s.Fields[i].Name
	}
	return names
}
