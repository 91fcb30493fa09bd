package interact

import "testing"

func TestPaletteColor(t *testing.T) {
	p := Nord
	tests := []struct {
		role  Role
		color string
		alpha float64
	}{
		{Muted, "#D8DEE9", 0.3},
		{Highlight, "#E5E9F0", 1},
		{Marker, "#88C0D0", 1},
	}
	for _, tt := range tests {
		c, a := p.Color(tt.role)
		if c != tt.color || a != tt.alpha {
			t.Errorf("%v: got %s/%v, want %s/%v", tt.role, c, a, tt.color, tt.alpha)
		}
	}
}

func TestPaletteBlend(t *testing.T) {
	p := Palette{Background: "#000000", Primary: "#FFFFFF", Text: "#ABCDEF", MutedAlpha: 0.5}
	if got := p.Blend(Muted); got != "#808080" {
		t.Errorf("Blend(Muted) = %s", got)
	}
	if got := p.Blend(Highlight); got != "#ABCDEF" {
		t.Errorf("Blend(Highlight) = %s", got)
	}
	bad := Palette{Background: "nope", Primary: "#FFFFFF", MutedAlpha: 0.5}
	if got := bad.Blend(Muted); got != "#FFFFFF" {
		t.Errorf("invalid background: Blend = %s", got)
	}
}

func TestPaletteDefaults(t *testing.T) {
	p := Palette{Text: "#111111"}
	p.SetDefaults()
	if p.Text != "#111111" || p.Background != Nord.Background || p.MutedAlpha != Nord.MutedAlpha {
		t.Errorf("SetDefaults = %+v", p)
	}
}
