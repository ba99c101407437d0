package runner

import (
	"strings"

	"github.com/vovakirdan/cube-runner/internal/core"
)

// Material describes the cube surface.
type Material struct {
	Color             uint32
	Emissive          uint32
	EmissiveIntensity float64
	Metalness         float64
	Roughness         float64
}

// CubeSkin is the player's swappable appearance.
type CubeSkin struct {
	ID          string
	Name        string
	Size        float64
	Material    Material
	EdgeColor   uint32
	EdgeOpacity float64
	Glyph       rune       // Terminal glyph for the cube body
	TermColor   core.Color // Terminal colour for the cube body
}

var skins = []CubeSkin{
	{
		ID: "crimson", Name: "Crimson", Size: 1.0,
		Material:  Material{Color: 0xcc0000, Metalness: 0.3, Roughness: 0.7},
		EdgeColor: 0xff0000, EdgeOpacity: 0.8,
		Glyph: '█', TermColor: core.ColorRed,
	},
	{
		ID: "ghost", Name: "Ghost", Size: 1.0,
		Material:  Material{Color: 0xeeeeee, Metalness: 0.1, Roughness: 0.8},
		EdgeColor: 0xffffff, EdgeOpacity: 0.9,
		Glyph: '▓', TermColor: core.ColorWhite,
	},
	{
		ID: "shadow", Name: "Shadow", Size: 1.0,
		Material:  Material{Color: 0x1a1a1a, Metalness: 0.2, Roughness: 0.9},
		EdgeColor: 0x444444, EdgeOpacity: 0.7,
		Glyph: '█', TermColor: core.ColorDarkGray,
	},
	{
		ID: "steel", Name: "Steel", Size: 1.0,
		Material:  Material{Color: 0x4a5f7a, Metalness: 0.6, Roughness: 0.4},
		EdgeColor: 0x6a8fc3, EdgeOpacity: 0.8,
		Glyph: '█', TermColor: core.ColorBlue,
	},
	{
		ID: "gold", Name: "Gold", Size: 1.0,
		Material:  Material{Color: 0xd4af37, Metalness: 0.8, Roughness: 0.3},
		EdgeColor: 0xffd700, EdgeOpacity: 0.9,
		Glyph: '█', TermColor: core.ColorGold,
	},
	{
		ID: "forest", Name: "Forest", Size: 1.0,
		Material:  Material{Color: 0x2d5016, Metalness: 0.2, Roughness: 0.8},
		EdgeColor: 0x4a7c2c, EdgeOpacity: 0.8,
		Glyph: '█', TermColor: core.ColorGreen,
	},
}

// DefaultSkin is used when no skin is configured.
func DefaultSkin() CubeSkin {
	return skins[0]
}

// Skins returns the built-in skins in display order.
func Skins() []CubeSkin {
	out := make([]CubeSkin, len(skins))
	copy(out, skins)
	return out
}

// SkinByID finds a skin by ID or name, case-insensitively. Unknown IDs
// fall back to the default skin.
func SkinByID(id string) CubeSkin {
	if s, ok := LookupSkin(id); ok {
		return s
	}
	return DefaultSkin()
}

// LookupSkin finds a skin by ID or name.
func LookupSkin(id string) (CubeSkin, bool) {
	for _, s := range skins {
		if strings.EqualFold(s.ID, id) || strings.EqualFold(s.Name, id) {
			return s, true
		}
	}
	return CubeSkin{}, false
}

// NextSkin returns the skin after the given one, wrapping around.
func NextSkin(id string) CubeSkin {
	for i, s := range skins {
		if s.ID == id {
			return skins[(i+1)%len(skins)]
		}
	}
	return DefaultSkin()
}
