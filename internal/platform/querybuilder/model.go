package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel renders a single-row INSERT from a struct's db tags.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	return InsertModels(table, []any{model}, suffix)
}

// InsertModels renders one multi-row INSERT. Every model must be the same
// struct type; columns come from the first one.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert needs at least one model")
	}

	var columns []string
	var w writer
	for i, model := range models {
		cols, vals, err := dbFields(model)
		if err != nil {
			return "", nil, fmt.Errorf("insert model %d: %w", i, err)
		}
		if i == 0 {
			columns = cols
			w.WriteString("INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES ")
		} else {
			if len(cols) != len(columns) {
				return "", nil, fmt.Errorf("insert model %d has %d columns, expected %d", i, len(cols), len(columns))
			}
			w.WriteString(", ")
		}

		w.WriteString("(")
		for j, v := range vals {
			if j > 0 {
				w.WriteString(", ")
			}
			w.bind(v)
		}
		w.WriteString(")")
	}

	if suffix = strings.TrimSpace(suffix); suffix != "" {
		w.WriteString(" " + suffix)
	}
	return w.String(), w.args, nil
}

// dbFields reads exported fields tagged `db:"name"` in declaration order.
func dbFields(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
