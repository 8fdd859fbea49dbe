package domain

// Value is a single bound parameter or column value.
// The engine-native domain is nil, int64, float64, string and []byte.
// Callers may also pass bool and Undefined, which Sanitize normalises.
type Value = any

// undefined marks a value the caller left absent.
type undefined struct{}

// String implements fmt.Stringer.
func (undefined) String() string { return "undefined" }

// MarshalJSON renders Undefined as null, matching how it is bound.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined is the absent value. It binds as SQL NULL.
var Undefined Value = undefined{}

// IsUndefined reports whether v is the absent value.
func IsUndefined(v Value) bool {
	_, ok := v.(undefined)
	return ok
}

// SanitizeValue maps a single value onto the engine-native domain:
// Undefined becomes nil, true becomes 1 and false becomes 0.
// Every other value is returned unchanged.
func SanitizeValue(v Value) Value {
	switch x := v.(type) {
	case undefined:
		return nil
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}

// Sanitize returns a copy of values with SanitizeValue applied to each element.
// It is idempotent. A nil input yields nil.
func Sanitize(values []Value) []Value {
	if values == nil {
		return nil
	}
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = SanitizeValue(v)
	}
	return out
}
