package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a loosely-typed application record as delivered by the form
// backend or a historical snapshot. Field spellings vary by provenance, so
// every read goes through an ordered alias probe: the first key holding a
// usable value wins and values are never merged.
type Record map[string]any

func From(v any) Record {
	switch t := v.(type) {
	case Record:
		return t
	case map[string]any:
		return Record(t)
	default:
		return nil
	}
}

// String returns the first non-empty string among the probed keys. Numeric
// values are stringified so numeric ids survive JSON decoding. Keys may be
// dotted paths into nested objects.
func (r Record) String(keys ...string) string {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if s := coerceString(v); strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Int returns the first *present* value among the probed keys, preserving
// zero. Presence, not truthiness, decides: numberOfEmployees of 0 is a real
// answer.
func (r Record) Int(keys ...string) *int {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok || v == nil {
			continue
		}
		if n, ok := coerceInt(v); ok {
			return &n
		}
	}
	return nil
}

func (r Record) Bool(keys ...string) bool {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			lower := strings.ToLower(strings.TrimSpace(t))
			if lower == "true" || lower == "1" {
				return true
			}
			if lower == "false" || lower == "0" {
				return false
			}
		case float64:
			return t != 0
		case int:
			return t != 0
		}
	}
	return false
}

// Map returns the first probed key holding a nested object.
func (r Record) Map(keys ...string) Record {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if m := From(v); m != nil {
			return m
		}
	}
	return nil
}

// Slice returns the first probed key holding an array of objects.
func (r Record) Slice(keys ...string) []Record {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]Record, 0, len(arr))
		for _, item := range arr {
			if m := From(item); m != nil {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// TaggedList canonicalizes the array-vs-object duality of collections like
// addresses and documents. An array passes through as-is; an object keyed by
// tag ("1", "2", "authorizedSignature", ...) becomes a list with the map key
// injected under tagField when the entry doesn't carry it already. Every
// downstream consumer only ever sees the list shape.
func (r Record) TaggedList(key, tagField string) []Record {
	v, ok := r.lookup(key)
	if !ok || v == nil {
		return nil
	}

	if arr, ok := v.([]any); ok {
		out := make([]Record, 0, len(arr))
		for _, item := range arr {
			if m := From(item); m != nil {
				out = append(out, m)
			}
		}
		return out
	}

	m := From(v)
	if m == nil {
		return nil
	}
	out := make([]Record, 0, len(m))
	for tag, item := range m {
		entry := From(item)
		if entry == nil {
			continue
		}
		if entry.String(tagField) == "" {
			clone := make(Record, len(entry)+1)
			for k, ev := range entry {
				clone[k] = ev
			}
			clone[tagField] = tag
			entry = clone
		}
		out = append(out, entry)
	}
	return out
}

// Strings returns the first probed key holding an array of scalar values.
func (r Record) Strings(keys ...string) []string {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s := strings.TrimSpace(coerceString(item)); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func (r Record) Has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

func (r Record) lookup(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if !strings.Contains(key, ".") {
		v, ok := r[key]
		return v, ok
	}

	parts := strings.Split(key, ".")
	current := r
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		current = From(v)
		if current == nil {
			return nil, false
		}
	}
	return nil, false
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
