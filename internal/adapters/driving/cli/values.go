package cli

import (
	"bytes"
	"encoding/json"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

// parseValues reads command-line arguments as JSON scalars. Integral
// numbers become int64, other numbers float64. Arguments that are not a
// JSON scalar are kept as text.
func parseValues(args []string) []domain.Value {
	values := make([]domain.Value, len(args))
	for i, arg := range args {
		values[i] = parseValue(arg)
	}
	return values
}

func parseValue(arg string) domain.Value {
	dec := json.NewDecoder(bytes.NewReader([]byte(arg)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return arg
	}

	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return arg
	case string, bool, nil:
		return x
	default:
		// Arrays and objects are not bindable.
		return arg
	}
}
