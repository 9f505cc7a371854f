package columnar

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Normalize decodes a JSON record so that numbers are tagged jsonInt or
// jsonFloat instead of collapsing to float64, which would lose the
// int/float distinction the promotion lattice depends on.
func Normalize(raw map[string]any) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("columnar: re-encode record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var typed map[string]any
	if err := dec.Decode(&typed); err != nil {
		return nil, fmt.Errorf("columnar: decode record: %w", err)
	}
	return normalizeValue(typed).(map[string]any), nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return jsonInt(i)
		}
		f, _ := val.Float64()
		return jsonFloat(f)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = normalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			out[i] = normalizeValue(vv)
		}
		return out
	default:
		return val
	}
}

// typedDefault returns the zero value for a column type, used when a
// record omits a declared field.
func typedDefault(t ColumnType) any {
	switch t {
	case ColInt64:
		return jsonInt(0)
	case ColFloat64:
		return jsonFloat(0)
	case ColBoolean:
		return false
	case ColList:
		return []any{}
	default:
		return ""
	}
}
