package types

import "fmt"

// Metadata maps string keys to scalar values (string, int, int64, float64,
// bool). Index backends reject richer value kinds, so anything else fails
// Validate. Nil values are legal in transit but must be removed with
// StripNulls before a chunk is persisted.
type Metadata map[string]any

// Validate reports the first non-scalar, non-nil value found.
func (m Metadata) Validate() error {
	for k, v := range m {
		if v == nil {
			continue
		}
		switch v.(type) {
		case string, int, int64, float64, bool:
		default:
			return fmt.Errorf("metadata key %q: unsupported value type %T", k, v)
		}
	}
	return nil
}

// StripNulls returns a copy of m with all nil-valued entries removed. The
// receiver is never modified. A nil map yields an empty, non-nil map so
// callers can persist the result directly.
func (m Metadata) StripNulls() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of m. Scalar values make a shallow copy
// equivalent to a deep one.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
