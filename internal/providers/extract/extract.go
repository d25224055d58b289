// Package extract pulls values out of loosely structured JSON through ordered,
// named strategies. Each strategy returns an optional value; the first that
// yields one wins, so the fallback order is explicit and testable on its own.
package extract

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Item is one decoded JSON object.
type Item = map[string]any

// Strategy extracts an optional value from an item.
type Strategy[T any] struct {
	Name string
	Pull func(Item) (T, bool)
}

// First runs the strategies in order and returns the first value found with the strategy's name.
func First[T any](item Item, chain []Strategy[T]) (T, string, bool) {
	for _, s := range chain {
		if s.Pull == nil {
			continue
		}
		if v, ok := s.Pull(item); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// Decode parses a JSON body keeping numbers as json.Number.
func Decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return out, nil
}

// At walks a dotted path through nested objects. Numeric segments index arrays.
func At(item Item, path ...string) (any, bool) {
	var cur any = item
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok || v == nil {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// StringAt reads a non-empty string (or number rendered as text) at path.
func StringAt(path ...string) Strategy[string] {
	return Strategy[string]{
		Name: strings.Join(path, "."),
		Pull: func(item Item) (string, bool) {
			v, ok := At(item, path...)
			if !ok {
				return "", false
			}
			return AsString(v)
		},
	}
}

// IntAt reads an integral number at path.
func IntAt(path ...string) Strategy[int] {
	return Strategy[int]{
		Name: strings.Join(path, "."),
		Pull: func(item Item) (int, bool) {
			v, ok := At(item, path...)
			if !ok {
				return 0, false
			}
			return AsInt(v)
		},
	}
}

// FloatAt reads a number (or numeric string such as "$45.00") at path.
func FloatAt(path ...string) Strategy[float64] {
	return Strategy[float64]{
		Name: strings.Join(path, "."),
		Pull: func(item Item) (float64, bool) {
			v, ok := At(item, path...)
			if !ok {
				return 0, false
			}
			return AsFloat(v)
		},
	}
}

// BoolAt reads a boolean at path.
func BoolAt(path ...string) Strategy[bool] {
	return Strategy[bool]{
		Name: strings.Join(path, "."),
		Pull: func(item Item) (bool, bool) {
			v, ok := At(item, path...)
			if !ok {
				return false, false
			}
			return AsBool(v)
		},
	}
}

// LenAt counts the elements of an array at path.
func LenAt(path ...string) Strategy[int] {
	return Strategy[int]{
		Name: "len(" + strings.Join(path, ".") + ")",
		Pull: func(item Item) (int, bool) {
			v, ok := At(item, path...)
			if !ok {
				return 0, false
			}
			arr, ok := v.([]any)
			return len(arr), ok
		},
	}
}

// Scaled divides a numeric strategy's result, e.g. cents to dollars.
func Scaled(s Strategy[float64], divisor float64) Strategy[float64] {
	return Strategy[float64]{
		Name: fmt.Sprintf("%s/%g", s.Name, divisor),
		Pull: func(item Item) (float64, bool) {
			v, ok := s.Pull(item)
			if !ok || divisor == 0 {
				return 0, false
			}
			return v / divisor, true
		},
	}
}

// Strings builds one StringAt strategy per candidate key.
func Strings(keys ...string) []Strategy[string] {
	out := make([]Strategy[string], 0, len(keys))
	for _, k := range keys {
		out = append(out, StringAt(k))
	}
	return out
}

// Ints builds one IntAt strategy per candidate key.
func Ints(keys ...string) []Strategy[int] {
	out := make([]Strategy[int], 0, len(keys))
	for _, k := range keys {
		out = append(out, IntAt(k))
	}
	return out
}

// Floats builds one FloatAt strategy per candidate key.
func Floats(keys ...string) []Strategy[float64] {
	out := make([]Strategy[float64], 0, len(keys))
	for _, k := range keys {
		out = append(out, FloatAt(k))
	}
	return out
}

// Bools builds one BoolAt strategy per candidate key.
func Bools(keys ...string) []Strategy[bool] {
	out := make([]Strategy[bool], 0, len(keys))
	for _, k := range keys {
		out = append(out, BoolAt(k))
	}
	return out
}

// AsString coerces strings and numbers.
func AsString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

// AsFloat coerces numbers and numeric strings. Currency symbols and separators are ignored.
func AsFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, val)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsInt coerces integral numbers and numeric strings.
func AsInt(v any) (int, bool) {
	f, ok := AsFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// AsBool coerces booleans, "true"/"false" strings and 0/1 numbers.
func AsBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	case json.Number:
		i, err := val.Int64()
		if err != nil || (i != 0 && i != 1) {
			return false, false
		}
		return i == 1, true
	default:
		return false, false
	}
}
