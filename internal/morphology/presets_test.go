package morphology

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPresets(t *testing.T) {
	presets := DefaultPresets()
	for _, name := range []string{"milky-way", "andromeda-like", "giant-elliptical", "dwarf-irregular"} {
		spec, ok := presets[name]
		if !ok {
			t.Fatalf("missing built-in preset %q", name)
		}
		if !spec.Type.IsValid() {
			t.Errorf("preset %q has invalid type %q", name, spec.Type)
		}
	}
}

func TestLoadPresetsMissingFileUsesBuiltins(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if _, ok := presets["milky-way"]; !ok {
		t.Error("built-in presets missing after fallback")
	}
}

func TestLoadPresetsMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	content := `
ring-world:
  type: elliptical
  disk_radius: 9000
  half_height: 2000
  ellipticity: 0.2
milky-way:
  type: spiral
  disk_radius: 17000
  half_height: 400
  bulge_radius: 2000
  bulge_height: 1400
  bulge_intensity: 4
  disk_scale_length: 3000
  disk_scale_height: 300
  arm_count: 4
  arm_pitch: 0.22
  arm_width: 0.35
  arm_amplitude: 0.7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}

	if presets["ring-world"].DiskRadius != 9000 {
		t.Errorf("new preset not loaded: %+v", presets["ring-world"])
	}
	if presets["milky-way"].DiskRadius != 17000 {
		t.Errorf("file should override built-in preset, got radius %v", presets["milky-way"].DiskRadius)
	}
	if _, ok := presets["dwarf-irregular"]; !ok {
		t.Error("built-in presets should survive the merge")
	}
}

func TestLoadPresetsRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("bad:\n  type: lenticular\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Error("expected error for unknown galaxy type")
	}
}
