package settings

import (
	"reflect"
	"testing"
)

func TestToMapFromMapRoundTrip(t *testing.T) {
	original := DefaultSettings()
	doc, err := original.ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	restored, err := FromMap(doc)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if restored != original {
		t.Errorf("round trip changed the document: %+v, want %+v", restored, original)
	}
}

func TestCopyTreeIsIndependent(t *testing.T) {
	doc, err := DefaultSettings().ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}

	copied := CopyTree(doc)
	if !reflect.DeepEqual(copied, doc) {
		t.Fatalf("copy differs from original: %v vs %v", copied, doc)
	}

	copied["kubernetes"].(map[string]any)["port"] = float64(9999)
	copied["telemetry"] = false

	kubernetes := doc["kubernetes"].(map[string]any)
	if kubernetes["port"] != float64(6443) {
		t.Errorf("editing the copy changed the original port: %v", kubernetes["port"])
	}
	if doc["telemetry"] != true {
		t.Errorf("editing the copy changed the original telemetry: %v", doc["telemetry"])
	}
}

func TestJSONTypeName(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: nil, want: "null"},
		{value: true, want: "boolean"},
		{value: float64(7), want: "number"},
		{value: "x", want: "string"},
		{value: []any{}, want: "array"},
		{value: map[string]any{}, want: "object"},
	}

	for _, tt := range tests {
		if got := jsonTypeName(tt.value); got != tt.want {
			t.Errorf("jsonTypeName(%v): got %q, want %q", tt.value, got, tt.want)
		}
	}
}
