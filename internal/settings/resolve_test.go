package settings

import "testing"

// registryDoc has field names that contain the path separator themselves, so
// segment grouping has to be decided by the keys that actually exist.
func registryDoc() map[string]any {
	return map[string]any{
		"registry": map[string]any{
			"mirror-host": "registry-1.docker.io",
			"tls": map[string]any{
				"verify": true,
			},
		},
		"registry-overrides": map[string]any{
			"enabled": false,
		},
	}
}

func TestResolveLeaf(t *testing.T) {
	tests := []struct {
		name     string
		pathSpec string
		wantOK   bool
		wantKey  string
	}{
		{
			name:     "leaf name containing separator",
			pathSpec: "registry-mirror-host",
			wantOK:   true,
			wantKey:  "mirror-host",
		},
		{
			name:     "structural name containing separator wins over shorter prefix",
			pathSpec: "registry-overrides-enabled",
			wantOK:   true,
			wantKey:  "enabled",
		},
		{
			name:     "two structural levels",
			pathSpec: "registry-tls-verify",
			wantOK:   true,
			wantKey:  "verify",
		},
		{
			name:     "path addressing a structural node resolves to it",
			pathSpec: "registry-tls",
			wantOK:   true,
			wantKey:  "tls",
		},
		{
			name:     "unknown top-level segment",
			pathSpec: "bogus-mirror-host",
			wantOK:   false,
		},
		{
			name:     "unknown field inside structural node",
			pathSpec: "registry-bogus",
			wantOK:   false,
		},
		{
			name:     "suffix remaining past a leaf",
			pathSpec: "registry-tls-verify-extra",
			wantOK:   false,
		},
		{
			name:     "empty path",
			pathSpec: "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, key, ok := resolveLeaf(registryDoc(), tt.pathSpec)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if key != tt.wantKey {
				t.Errorf("key: got %q, want %q", key, tt.wantKey)
			}
			if _, present := parent[key]; !present {
				t.Errorf("parent does not contain key %q", key)
			}
		})
	}
}

func TestResolveLeaf_ParentIsExactNode(t *testing.T) {
	doc := registryDoc()
	parent, key, ok := resolveLeaf(doc, "registry-tls-verify")
	if !ok {
		t.Fatal("expected resolution to succeed")
	}

	parent[key] = false

	tls := doc["registry"].(map[string]any)["tls"].(map[string]any)
	if tls["verify"] != false {
		t.Errorf("write through resolved parent did not reach the tree: %v", tls)
	}
}
