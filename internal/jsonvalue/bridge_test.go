package jsonvalue

import (
	"strings"
	"testing"
)

func TestFromMapAndToAny(t *testing.T) {
	m := map[string]any{
		"name": "tova",
		"port": int64(3000),
		"tags": []any{"a", "b"},
		"nested": map[string]any{
			"enabled": true,
		},
	}

	v := FromMap(m)
	if v.Kind() != KindObject {
		t.Fatalf("FromMap kind = %v, want KindObject", v.Kind())
	}

	back, ok := ToAny(v).(map[string]any)
	if !ok {
		t.Fatalf("ToAny did not return a map[string]any")
	}
	if back["name"] != "tova" {
		t.Fatalf("name = %#v, want tova", back["name"])
	}
	nested, ok := back["nested"].(map[string]any)
	if !ok || nested["enabled"] != true {
		t.Fatalf("nested.enabled round-trip failed: %#v", back["nested"])
	}
}

func TestFromJSONAndGetPath(t *testing.T) {
	doc := []byte(`{"server":"prod-1","domain":"example.com","env":{"PORT":3000}}`)

	v, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if got := GetPath(v, "server"); got.Kind() != KindString || got.StringValue() != "prod-1" {
		t.Fatalf("GetPath(server) = %#v", got)
	}
	if got := GetPath(v, "env.PORT"); got.Kind() != KindInt64 && got.Kind() != KindNumber {
		t.Fatalf("GetPath(env.PORT) kind = %v, want numeric", got.Kind())
	}
	if got := GetPath(v, "missing"); got.Kind() != KindUndefined {
		t.Fatalf("GetPath(missing) kind = %v, want KindUndefined", got.Kind())
	}
}

func TestFromJSONInvalid(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected an error for invalid JSON")
	}
}

func TestSetPathAutoVivifies(t *testing.T) {
	doc, err := SetPath([]byte("{}"), "db.postgres.host", "localhost")
	if err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if !strings.Contains(string(doc), `"host":"localhost"`) {
		t.Fatalf("SetPath result missing nested value: %s", doc)
	}

	doc, err = SetPath(doc, "db.postgres.port", 5432)
	if err != nil {
		t.Fatalf("SetPath (second): %v", err)
	}

	v, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("FromJSON after SetPath: %v", err)
	}
	if got := GetPath(v, "db.postgres.port"); got.Kind() == KindUndefined {
		t.Fatalf("db.postgres.port missing after two SetPath calls")
	}
}

func TestToYAML(t *testing.T) {
	v := NewObject()
	v.ObjectSet("server", NewString("prod-1"))
	v.ObjectSet("replicas", NewInt64(3))

	out, err := ToYAML(v)
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	if !strings.Contains(string(out), "server:") {
		t.Fatalf("ToYAML output missing server key: %s", out)
	}
}
