package interact

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/notegraph/pkg/geom"
)

// Role is the colour role of a drawable.
type Role int

const (
	// Muted is the default role for nodes, edges and labels.
	Muted Role = iota
	// Highlight marks the active node, its neighbours and their edges.
	Highlight
	// Marker is the pulse travelling along edges of the active node.
	Marker
)

func (r Role) String() string {
	switch r {
	case Muted:
		return "muted"
	case Highlight:
		return "highlight"
	case Marker:
		return "marker"
	}
	return "unknown"
}

// Line is an edge segment.
type Line struct {
	From  geom.Point
	To    geom.Point
	Color Role
}

// Circle is a filled disc. Node is the node index, or -1 for markers.
type Circle struct {
	Center geom.Point
	Radius float64
	Color  Role
	Node   int
}

// Label is a node name drawn next to its circle.
type Label struct {
	Pos   geom.Point
	Size  float64
	Text  string
	Color Role
}

// Scene is everything to draw for one frame, in screen coordinates and in
// drawing order: lines first, then circles, then labels.
type Scene struct {
	Screen  geom.Rect
	Lines   []Line
	Circles []Circle
	Labels  []Label
}

// Palette maps roles to colours. Values are "#RRGGBB" strings.
type Palette struct {
	Background string  `json:"background" yaml:"background" toml:"background"`
	Text       string  `json:"text" yaml:"text" toml:"text"`
	Primary    string  `json:"primary" yaml:"primary" toml:"primary"`
	Success    string  `json:"success" yaml:"success" toml:"success"`
	Danger     string  `json:"danger" yaml:"danger" toml:"danger"`
	MutedAlpha float64 `json:"muted_alpha" yaml:"muted_alpha" toml:"muted_alpha"`
}

// Nord is the default palette.
var Nord = Palette{
	Background: "#2E3440",
	Text:       "#E5E9F0",
	Primary:    "#D8DEE9",
	Success:    "#88C0D0",
	Danger:     "#BF616A",
	MutedAlpha: 0.3,
}

// SetDefaults fills empty fields from [Nord].
func (p *Palette) SetDefaults() {
	if p.Background == "" {
		p.Background = Nord.Background
	}
	if p.Text == "" {
		p.Text = Nord.Text
	}
	if p.Primary == "" {
		p.Primary = Nord.Primary
	}
	if p.Success == "" {
		p.Success = Nord.Success
	}
	if p.Danger == "" {
		p.Danger = Nord.Danger
	}
	if p.MutedAlpha == 0 {
		p.MutedAlpha = Nord.MutedAlpha
	}
}

// Color returns the colour for r and its opacity in [0,1].
func (p Palette) Color(r Role) (string, float64) {
	switch r {
	case Highlight:
		return p.Text, 1
	case Marker:
		return p.Success, 1
	}
	return p.Primary, p.MutedAlpha
}

// Blend returns the colour for r pre-mixed with the background, for
// surfaces without transparency. Invalid colours are returned unchanged.
func (p Palette) Blend(r Role) string {
	c, a := p.Color(r)
	if a >= 1 {
		return c
	}
	fg, err := colorful.Hex(c)
	if err != nil {
		return c
	}
	bg, err := colorful.Hex(p.Background)
	if err != nil {
		return c
	}
	return bg.BlendRgb(fg, a).Hex()
}
