package morphology

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Presets are named morphology parameter sets. A preset's seed field is
// a placeholder; the caller supplies the real master seed when creating
// a galaxy from it.

// DefaultPresets returns the built-in parameter sets, used when no
// preset file is configured.
func DefaultPresets() map[string]Spec {
	milkyWay := MilkyWay(0)

	andromeda := milkyWay
	andromeda.DiskRadius = 23000
	andromeda.DiskScaleLength = 5000
	andromeda.ArmCount = 2
	andromeda.ArmPitch = 0.14

	elliptical := Spec{
		Type:        TypeElliptical,
		DiskRadius:  12000,
		HalfHeight:  8000,
		Ellipticity: 0.4,
	}

	dwarf := Spec{
		Type:              TypeIrregular,
		DiskRadius:        3000,
		HalfHeight:        800,
		DiskScaleHeight:   500,
		IrregularityScale: 600,
	}

	return map[string]Spec{
		"milky-way":        milkyWay,
		"andromeda-like":   andromeda,
		"giant-elliptical": elliptical,
		"dwarf-irregular":  dwarf,
	}
}

// LoadPresets reads named specs from a YAML file and merges them over
// the built-ins. A missing file is not an error; the built-ins stand.
func LoadPresets(path string) (map[string]Spec, error) {
	presets := DefaultPresets()

	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Preset file not found, using built-in presets",
				"component", "morphology", "path", path)
			return presets, nil
		}
		return nil, fmt.Errorf("failed to read preset file %s: %w", path, err)
	}

	var loaded map[string]Spec
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse preset file %s: %w", path, err)
	}

	for name, spec := range loaded {
		if !spec.Type.IsValid() {
			return nil, fmt.Errorf("preset %q has unknown galaxy type %q", name, spec.Type)
		}
		presets[name] = spec
	}

	slog.Info("Morphology presets loaded",
		"component", "morphology", "path", path, "count", len(presets))

	return presets, nil
}
