package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/skipper-desktop/skipctl/internal/settings"
)

func TestOpen_MissingFileUsesDefaults(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := settings.DefaultSettings().ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if got := st.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("snapshot: got %v, want defaults %v", got, want)
	}
}

func TestOpen_PartialFileInheritsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	contents := `{
  // local override
  "kubernetes": {"port": 6444}
}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	st, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := st.Snapshot()
	kubernetes := doc["kubernetes"].(map[string]any)
	if kubernetes["port"] != float64(6444) {
		t.Errorf("kubernetes.port: got %v, want 6444", kubernetes["port"])
	}
	if kubernetes["containerEngine"] != "moby" {
		t.Errorf("kubernetes.containerEngine: got %v, want default %q", kubernetes["containerEngine"], "moby")
	}
}

func TestOpen_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Open(path); err == nil || !strings.Contains(err.Error(), "parse settings file") {
		t.Errorf("got %v, want parse error", err)
	}
}

func TestReplace_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	doc := st.Snapshot()
	patched, err := settings.UpdateFromCommandLine(doc, []string{"--kubernetes-containerEngine=containerd"})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if err := st.Replace(patched); err != nil {
		t.Fatalf("replace: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	kubernetes := reopened.Snapshot()["kubernetes"].(map[string]any)
	if kubernetes["containerEngine"] != "containerd" {
		t.Errorf("containerEngine after reload: got %v, want %q", kubernetes["containerEngine"], "containerd")
	}
}

func TestUpdate_HoldsLockAcrossReadModifyWrite(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- st.Update(func(doc map[string]any) (map[string]any, error) {
			close(entered)
			<-release
			return settings.UpdateFromCommandLine(doc, []string{"--kubernetes-suppressSudo=true"})
		})
	}()
	<-entered

	second := make(chan error, 1)
	go func() {
		second <- st.Update(func(doc map[string]any) (map[string]any, error) {
			return settings.UpdateFromCommandLine(doc, []string{"--kubernetes-memoryInGB=6"})
		})
	}()

	// The second update must wait for the first one's whole
	// snapshot-patch-persist sequence, not just for individual store calls.
	select {
	case err := <-second:
		t.Fatalf("second update completed while the first was mid-flight: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := <-second; err != nil {
		t.Fatalf("second update: %v", err)
	}

	kubernetes := st.Snapshot()["kubernetes"].(map[string]any)
	if kubernetes["suppressSudo"] != true {
		t.Errorf("suppressSudo: got %v, want true (first update lost)", kubernetes["suppressSudo"])
	}
	if kubernetes["memoryInGB"] != float64(6) {
		t.Errorf("memoryInGB: got %v, want 6 (second update lost)", kubernetes["memoryInGB"])
	}
}

func TestUpdate_ApplyErrorLeavesDocumentUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	before := st.Snapshot()

	wantErr := "nothing to apply"
	err = st.Update(func(doc map[string]any) (map[string]any, error) {
		doc["telemetry"] = false
		return nil, errors.New(wantErr)
	})
	if err == nil || err.Error() != wantErr {
		t.Fatalf("got %v, want %q", err, wantErr)
	}

	if !reflect.DeepEqual(st.Snapshot(), before) {
		t.Error("failed update changed the document")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("failed update persisted a settings file: %v", err)
	}
}

func TestReplace_RejectsOffSchemaTrees(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	doc := st.Snapshot()
	doc["kubernetes"] = "not a mapping"
	if err := st.Replace(doc); err == nil {
		t.Error("expected error replacing with an off-schema tree")
	}
}

func TestSnapshot_IsIndependent(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	first := st.Snapshot()
	first["telemetry"] = false

	if st.Snapshot()["telemetry"] != true {
		t.Error("mutating a snapshot leaked into the store")
	}
}
