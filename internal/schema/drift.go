package schema

import (
	"fmt"

	"gorm.io/gorm"
)

// Drift is a column or table a model declares that the database lacks.
type Drift struct {
	Table  string
	Column string
}

func (d Drift) String() string {
	if d.Column == "" {
		return fmt.Sprintf("missing table %s", d.Table)
	}
	return fmt.Sprintf("missing column %s.%s", d.Table, d.Column)
}

// CompareDatabase reports the tables and columns of models that db does not
// have. An empty result means the applied migrations cover every model.
func CompareDatabase(db *gorm.DB, models ...interface{}) ([]Drift, error) {
	migrator := db.Migrator()

	var drift []Drift
	for _, model := range models {
		table, err := CreateTableFromModel(model)
		if err != nil {
			return nil, err
		}
		if !migrator.HasTable(table.TableName()) {
			drift = append(drift, Drift{Table: table.TableName()})
			continue
		}
		for _, col := range table.Columns {
			if !migrator.HasColumn(model, col.DBName) {
				drift = append(drift, Drift{Table: table.TableName(), Column: col.DBName})
			}
		}
	}
	return drift, nil
}
