package smooth

import "fmt"

// Preset names a stored monitor parameter combination.
type Preset int

// Available presets. Custom intentionally defines no values: loading
// it leaves every parameter where it is.
const (
	PresetClean Preset = iota
	PresetVocalBooth
	PresetStudio
	PresetCathedral
	PresetCustom
)

// String returns the preset name.
func (p Preset) String() string {
	switch p {
	case PresetClean:
		return "clean"
	case PresetVocalBooth:
		return "vocal-booth"
	case PresetStudio:
		return "studio"
	case PresetCathedral:
		return "cathedral"
	case PresetCustom:
		return "custom"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// ParsePreset maps a preset name to its Preset value.
func ParsePreset(name string) (Preset, error) {
	for p := PresetClean; p <= PresetCustom; p++ {
		if p.String() == name {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown preset: %q", name)
}

type presetValue struct {
	role  Role
	value float64
}

var presetValues = map[Preset][]presetValue{
	PresetClean: {
		{WetDryMix, 0.2},
		{ReverbDecay, 0.3},
		{ReverbSize, 0.2},
		{DampingHF, 0.7},
		{DampingLF, 0.1},
	},
	PresetVocalBooth: {
		{WetDryMix, 0.3},
		{ReverbDecay, 0.4},
		{ReverbSize, 0.3},
		{DampingHF, 0.6},
		{DampingLF, 0.2},
	},
	PresetStudio: {
		{WetDryMix, 0.4},
		{ReverbDecay, 0.6},
		{ReverbSize, 0.5},
		{DampingHF, 0.4},
		{DampingLF, 0.1},
	},
	PresetCathedral: {
		{WetDryMix, 0.6},
		{ReverbDecay, 0.9},
		{ReverbSize, 0.8},
		{DampingHF, 0.2},
		{DampingLF, 0.0},
	},
	PresetCustom: {},
}
