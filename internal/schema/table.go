package schema

import (
	"fmt"
	"sort"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

// Table is the parsed GORM schema of one persisted model.
type Table struct {
	*GORMSchema.Schema
	Columns []*Column
}

// Column is a database-backed field of a Table.
type Column struct {
	*GORMSchema.Field
}

func (c *Column) Type() string {
	return string(c.DataType)
}

func (t *Table) TableName() string {
	return t.Table
}

// Relations returns the names of the related models, sorted.
func (t *Table) Relations() []string {
	var names []string
	for name := range t.Relationships.Relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var cache sync.Map

// CreateTableFromModel parses model with GORM's default naming strategy.
// Fields without a database column, such as relations, are skipped.
func CreateTableFromModel(model interface{}) (*Table, error) {
	modelSchema, err := GORMSchema.Parse(model, &cache, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
	}

	columns := make([]*Column, 0, len(modelSchema.DBNames))
	for _, name := range modelSchema.DBNames {
		columns = append(columns, &Column{Field: modelSchema.FieldsByDBName[name]})
	}

	if len(modelSchema.PrimaryFields) == 0 {
		return nil, fmt.Errorf("model %s has no primary key", modelSchema.Name)
	}

	return &Table{Schema: modelSchema, Columns: columns}, nil
}
