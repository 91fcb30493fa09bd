package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

func fixture() *notegraph.Graph {
	g, _ := notegraph.BuildMap(map[string][]string{
		"a": {"b"},
		"b": nil,
		"c": nil,
	}, notegraph.Options{})
	return g
}

func TestToDOTBasic(t *testing.T) {
	dot := ToDOT(fixture(), []geom.Point{{X: 10, Y: 20}, {X: -5.5, Y: 0}}, Options{})

	for _, want := range []string{
		"digraph G",
		"layout=neato",
		"inputscale=72",
		`"a" [pos="10.00,-20.00!"`,
		`"b" [pos="-5.50,-0.00!"`,
		`"c" [pos="0.00,-0.00!"`,
		`xlabel="a"`,
		`"a" -> "b";`,
		`bgcolor="` + interact.Nord.Background + `"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTNoLabels(t *testing.T) {
	dot := ToDOT(fixture(), nil, Options{NoLabels: true})
	if strings.Contains(dot, "xlabel") {
		t.Errorf("ToDOT(NoLabels) still has labels:\n%s", dot)
	}
}

func TestToDOTHighlight(t *testing.T) {
	pal := interact.Nord
	dot := ToDOT(fixture(), nil, Options{Highlight: "a"})

	for _, want := range []string{
		`"a" [pos="0.00,-0.00!", fillcolor="` + pal.Success + `"`,
		`"b" [pos="0.00,-0.00!", fillcolor="` + pal.Text + `"`,
		`"c" [pos="0.00,-0.00!", fillcolor="` + pal.Blend(interact.Muted) + `"`,
		`"a" -> "b" [color="` + pal.Text + `"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT(Highlight) missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTUnknownHighlight(t *testing.T) {
	if ToDOT(fixture(), nil, Options{Highlight: "zzz"}) != ToDOT(fixture(), nil, Options{}) {
		t.Error("unknown highlight changed the output")
	}
}

func TestFmtCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1.005, "1.00"},
		{-12.5, "-12.50"},
	}
	for _, tt := range tests {
		if got := fmtCoord(tt.in); got != tt.want {
			t.Errorf("fmtCoord(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed an svg without viewBox")
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(fixture(), []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 50}, {X: -80, Y: 20}}, Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Error("RenderSVG() output not normalized")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("RenderSVG() error = %v, want INTERNAL_ERROR", err)
	}
	if _, err := RenderPNG(context.Background(), `not valid DOT {{{`, 2); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("RenderPNG() error = %v, want INTERNAL_ERROR", err)
	}
}
