package jsonvalue

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FromMap builds a Value tree from a plain Go map, sorting keys for a
// deterministic object key order (callers that need insertion order should
// build the Value directly with ObjectSet instead).
func FromMap(m map[string]any) *Value {
	return fromAny(m)
}

func fromAny(x any) *Value {
	switch t := x.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBoolean(t)
	case string:
		return NewString(t)
	case int:
		return NewInt64(int64(t))
	case int64:
		return NewInt64(t)
	case float64:
		return NewNumber(t)
	case []any:
		arr := NewArray()
		for _, e := range t {
			arr.ArrayAppend(fromAny(e))
		}
		return arr
	case map[string]any:
		obj := NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.ObjectSet(k, fromAny(t[k]))
		}
		return obj
	default:
		return NewUndefined()
	}
}

// ToAny converts a Value tree into plain Go values (map[string]any,
// []any, and primitives), suitable for handing to a library, like
// goccy/go-yaml, that serializes via reflection rather than our own
// MarshalJSON.
func ToAny(v *Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case KindNull, KindUndefined:
		return nil
	case KindBoolean:
		return v.BoolValue()
	case KindString:
		return v.StringValue()
	case KindInt64:
		return v.Int64Value()
	case KindNumber:
		return v.NumberValue()
	case KindArray:
		elems := v.ArrayElements()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = ToAny(e)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.objKeys))
		for _, k := range v.ObjectKeys() {
			out[k] = ToAny(v.ObjectGet(k))
		}
		return out
	default:
		return nil
	}
}

// ToYAML renders a Value tree as YAML, routing through goccy/go-yaml since
// it marshals the plain-Go representation built by ToAny.
func ToYAML(v *Value) ([]byte, error) {
	return yaml.Marshal(ToAny(v))
}

// FromJSON parses a full JSON document into a Value tree, preserving object
// key order as encountered in the source bytes (gjson.ForEach visits object
// keys in document order).
func FromJSON(doc []byte) (*Value, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("jsonvalue: invalid JSON document")
	}
	return fromGJSON(gjson.ParseBytes(doc)), nil
}

// GetPath reads a dotted gjson path ("server.port", "domains.0") out of a
// Value's JSON encoding, returning Undefined if the path is absent. Used by
// the deploy-manifest emitter to check required fields without a full
// struct decode.
func GetPath(v *Value, path string) *Value {
	raw, err := v.MarshalJSON()
	if err != nil {
		return NewUndefined()
	}
	result := gjson.GetBytes(raw, path)
	if !result.Exists() {
		return NewUndefined()
	}
	return fromGJSON(result)
}

func fromGJSON(r gjson.Result) *Value {
	switch r.Type {
	case gjson.Null:
		return NewNull()
	case gjson.False:
		return NewBoolean(false)
	case gjson.True:
		return NewBoolean(true)
	case gjson.Number:
		return NewNumber(r.Num)
	case gjson.String:
		return NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			arr := NewArray()
			for _, e := range r.Array() {
				arr.ArrayAppend(fromGJSON(e))
			}
			return arr
		}
		obj := NewObject()
		r.ForEach(func(key, value gjson.Result) bool {
			obj.ObjectSet(key.String(), fromGJSON(value))
			return true
		})
		return obj
	default:
		return NewUndefined()
	}
}

// SetPath returns a new JSON document with path set to value, delegating to
// tidwall/sjson so nested paths ("server.tls.cert") auto-vivify intermediate
// objects without a manual walk.
func SetPath(doc []byte, path string, value any) ([]byte, error) {
	return sjson.SetBytes(doc, path, value)
}
