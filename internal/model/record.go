package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Record is a flat inventory entity as delivered by the Nautobot GraphQL
// API: scalar fields, nested {name}/{address} references, or string arrays.
// The "id" key is required and unique within any record list.
type Record map[string]any

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Resolve returns the display value for a field. Nested references resolve
// to their name/address, arrays join with ", ", missing fields resolve to
// the empty string. It never fails; unknown object shapes fall back to
// their JSON encoding so the UI always has something to render.
func (r Record) Resolve(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	return ResolveValue(v)
}

func ResolveValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		// JSON numbers decode as float64; print integers without a fraction.
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, ResolveValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if name, ok := val["name"].(string); ok {
			return name
		}
		if addr, ok := val["address"].(string); ok {
			return addr
		}
		if model, ok := val["model"].(string); ok {
			return model
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// Fields returns the record's field names sorted, excluding "id".
func (r Record) Fields() []string {
	fields := make([]string, 0, len(r))
	for k := range r {
		if k == "id" {
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
