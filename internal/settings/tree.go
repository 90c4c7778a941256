package settings

import (
	"encoding/json"
	"fmt"
)

// ToMap converts the typed document into the generic tree the patch engine
// traverses: nested map[string]any with string, float64, and bool leaves
// (the shapes encoding/json produces).
func (s Settings) ToMap() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return doc, nil
}

// FromMap converts a generic tree back into the typed document.
func FromMap(doc map[string]any) (Settings, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Settings{}, fmt.Errorf("encode settings tree: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings tree: %w", err)
	}
	return s, nil
}

// CopyTree returns a deep, independent copy of a settings tree. The patch
// engine edits the copy so the caller's snapshot is never touched.
func CopyTree(doc map[string]any) map[string]any {
	copied := make(map[string]any, len(doc))
	for key, value := range doc {
		if node, ok := value.(map[string]any); ok {
			copied[key] = CopyTree(node)
			continue
		}
		copied[key] = value
	}
	return copied
}

// jsonTypeName names the JSON-native type of a decoded value, for use in
// type-mismatch messages.
func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
