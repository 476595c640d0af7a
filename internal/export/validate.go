package export

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

var rowSchema = parquet.SchemaOf(ProcedureRow{})

// ValidateSchema reports every non-optional ProcedureRow column that schema
// lacks. Extra columns are allowed.
func ValidateSchema(schema *parquet.Schema) error {
	have := make(map[string]bool)
	for _, field := range schema.Fields() {
		have[field.Name()] = true
	}

	var missing []string
	for _, field := range rowSchema.Fields() {
		if !field.Optional() && !have[field.Name()] {
			missing = append(missing, field.Name())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("not a procedure export, missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
