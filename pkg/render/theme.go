package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/citescope/citescope/pkg/graph"
)

// Theme holds the full color palette for a frame. DefaultTheme is a dark
// glass-morphic palette; the config layer may override individual colors.
type Theme struct {
	Background color.RGBA

	Edge          color.RGBA
	EdgeHighlight color.RGBA
	Particle      color.RGBA
	ChipFill      color.RGBA
	ChipText      color.RGBA

	GlowHovered   color.RGBA
	GlowSelected  color.RGBA
	GlowConnected color.RGBA

	NodeColors map[graph.NodeType]color.RGBA
	Glyphs     map[graph.NodeType]string
}

// DefaultTheme returns the standard dark palette.
func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{0x1e, 0x1e, 0x2e, 0xff},

		Edge:          color.RGBA{0x6b, 0x80, 0xbf, 0x80},
		EdgeHighlight: color.RGBA{0x8b, 0xe9, 0xfd, 0xd0},
		Particle:      color.RGBA{0xf8, 0xf8, 0xf2, 0xb0},
		ChipFill:      color.RGBA{0x2a, 0x2a, 0x3e, 0xd8},
		ChipText:      color.RGBA{0xf8, 0xf8, 0xf2, 0xff},

		GlowHovered:   color.RGBA{0xf8, 0xf8, 0xf2, 0xc0},
		GlowSelected:  color.RGBA{0xf1, 0xfa, 0x8c, 0xc0},
		GlowConnected: color.RGBA{0x8b, 0xe9, 0xfd, 0x90},

		NodeColors: map[graph.NodeType]color.RGBA{
			graph.NodeTypePaper:     {0x8b, 0xe9, 0xfd, 0xff},
			graph.NodeTypeAuthor:    {0x50, 0xfa, 0x7b, 0xff},
			graph.NodeTypeVenue:     {0xbd, 0x93, 0xf9, 0xff},
			graph.NodeTypeField:     {0xff, 0xb8, 0x6c, 0xff},
			graph.NodeTypeReference: {0x62, 0x72, 0xa4, 0xff},
			graph.NodeTypeUnknown:   {0x94, 0xa3, 0xb8, 0xff},
		},
		Glyphs: map[graph.NodeType]string{
			graph.NodeTypePaper:     "P",
			graph.NodeTypeAuthor:    "A",
			graph.NodeTypeVenue:     "V",
			graph.NodeTypeField:     "F",
			graph.NodeTypeReference: "R",
			graph.NodeTypeUnknown:   "?",
		},
	}
}

// Overrides holds optional palette replacements as CSS-style hex
// strings. Empty fields keep the default; Nodes is keyed by node type
// name (paper, author, venue, field, reference, unknown).
type Overrides struct {
	Background string
	Edge       string
	Nodes      map[string]string
}

// Apply replaces palette entries from o, reporting the first malformed
// color or unrecognized node type name.
func (t *Theme) Apply(o Overrides) error {
	if o.Background != "" {
		c, err := ParseHexColor(o.Background)
		if err != nil {
			return err
		}
		t.Background = c
	}
	if o.Edge != "" {
		c, err := ParseHexColor(o.Edge)
		if err != nil {
			return err
		}
		t.Edge = c
	}
	for name, hex := range o.Nodes {
		nt := graph.ParseNodeType(name)
		if nt == graph.NodeTypeUnknown && name != "unknown" {
			return fmt.Errorf("unknown node type %q", name)
		}
		c, err := ParseHexColor(hex)
		if err != nil {
			return err
		}
		t.NodeColors[nt] = c
	}
	return nil
}

// ParseHexColor parses #rgb, #rrggbb, or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	var digits string
	switch len(hex) {
	case 3:
		digits = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2], 'f', 'f'})
	case 6:
		digits = hex + "ff"
	case 8:
		digits = hex
	default:
		return color.RGBA{}, fmt.Errorf("malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// NodeColor returns the disk color for a node type.
func (t Theme) NodeColor(nt graph.NodeType) color.RGBA {
	if c, ok := t.NodeColors[nt]; ok {
		return c
	}
	return t.NodeColors[graph.NodeTypeUnknown]
}

// Glyph returns the centered icon glyph for a node type.
func (t Theme) Glyph(nt graph.NodeType) string {
	if g, ok := t.Glyphs[nt]; ok {
		return g
	}
	return "?"
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: uint8(float64(a.A) + t*(float64(b.A)-float64(a.A))),
	}
}

// lighten moves a color toward white by t.
func lighten(c color.RGBA, t float64) color.RGBA {
	return lerpColor(c, color.RGBA{0xff, 0xff, 0xff, c.A}, t)
}

// darken moves a color toward black by t.
func darken(c color.RGBA, t float64) color.RGBA {
	return lerpColor(c, color.RGBA{0, 0, 0, c.A}, t)
}

// withAlpha returns c with its alpha replaced.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
