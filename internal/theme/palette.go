package theme

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

func (m Mode) Valid() bool { return m == Light || m == Dark }

// Palette is the set of named color tokens a screen draws with.
type Palette struct {
	Background    string `yaml:"background" json:"background"`
	Surface       string `yaml:"surface" json:"surface"`
	Primary       string `yaml:"primary" json:"primary"`
	Secondary     string `yaml:"secondary" json:"secondary"`
	Text          string `yaml:"text" json:"text"`
	TextSecondary string `yaml:"textSecondary" json:"textSecondary"`
	Border        string `yaml:"border" json:"border"`
	Error         string `yaml:"error" json:"error"`
	Success       string `yaml:"success" json:"success"`
}

//go:embed palettes.yaml
var palettesYAML []byte

var palettes = mustLoadPalettes(palettesYAML)

// PaletteFor looks up the static palette of m. Unknown modes get the light
// palette.
func PaletteFor(m Mode) Palette {
	if !m.Valid() {
		m = Light
	}
	return palettes[m]
}

func loadPalettes(raw []byte) (map[Mode]Palette, error) {
	var table map[Mode]Palette
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode palettes: %w", err)
	}
	for _, m := range []Mode{Light, Dark} {
		if _, ok := table[m]; !ok {
			return nil, fmt.Errorf("palette %q missing", m)
		}
	}
	return table, nil
}

func mustLoadPalettes(raw []byte) map[Mode]Palette {
	table, err := loadPalettes(raw)
	if err != nil {
		panic(err)
	}
	return table
}
