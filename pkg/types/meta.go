package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// Meta is a flat correlation map attached to ledger entries and charges.
// Values are strings, numbers or nil.
type Meta map[string]any

// Validate rejects nested or non-scalar values.
func (m Meta) Validate() error {
	for _, key := range m.Keys() {
		switch m[key].(type) {
		case nil, string, int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		default:
			return fmt.Errorf("meta %q: unsupported value type %T", key, m[key])
		}
	}
	return nil
}

// String returns the value for key when it holds a string.
func (m Meta) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok && v != ""
}

// Keys returns the keys in sorted order.
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of m with other's entries laid over it.
func (m Meta) Merge(other Meta) Meta {
	out := make(Meta, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func (m Meta) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("meta: marshal: %w", err)
	}
	return string(raw), nil
}

func (m *Meta) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = Meta{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("meta: unsupported scan type %T", value)
	}

	decoded := Meta{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("meta: decode: %w", err)
	}
	*m = decoded
	return nil
}
