package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

func fixture() (*notegraph.Graph, *notegraph.Report) {
	return notegraph.BuildMap(map[string][]string{
		"a": {"b", "zzz"},
		"b": {"a"},
		"c": nil,
	}, notegraph.Options{})
}

func TestNew(t *testing.T) {
	g, rep := fixture()
	pos := []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	s := New("/notes", g, pos, 7, rep)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID = %q, not a uuid: %v", s.ID, err)
	}
	if s.Root != "/notes" || s.Steps != 7 {
		t.Errorf("Root, Steps = %q, %d", s.Root, s.Steps)
	}
	if len(s.Nodes) != 3 {
		t.Fatalf("Nodes = %d, want 3", len(s.Nodes))
	}
	if n := s.Nodes[1]; n.ID != "b" || n.X != 3 || n.Y != 4 || n.Degree != 1 {
		t.Errorf("Nodes[1] = %+v", n)
	}
	if n := s.Nodes[2]; n.X != 0 || n.Y != 0 || n.Degree != 0 {
		t.Errorf("node without position = %+v", n)
	}
	wantEdges := []Edge{{From: "a", To: "b"}, {From: "b", To: "a"}}
	if len(s.Edges) != len(wantEdges) {
		t.Fatalf("Edges = %v, want %v", s.Edges, wantEdges)
	}
	for i := range wantEdges {
		if s.Edges[i] != wantEdges[i] {
			t.Errorf("Edges[%d] = %v, want %v", i, s.Edges[i], wantEdges[i])
		}
	}
	if len(s.Diagnostics) != 2 {
		t.Fatalf("Diagnostics = %+v", s.Diagnostics)
	}
	d := s.Diagnostics[0]
	if d.Kind != string(notegraph.KindDangling) || d.Source != "a" || d.Target != "zzz" || d.Message == "" {
		t.Errorf("Diagnostics[0] = %+v", d)
	}
	if s.Diagnostics[1].Kind != string(notegraph.KindOrphan) {
		t.Errorf("Diagnostics[1] = %+v", s.Diagnostics[1])
	}
}

func TestNewUniqueIDs(t *testing.T) {
	g, _ := fixture()
	if New("", g, nil, 0, nil).ID == New("", g, nil, 0, nil).ID {
		t.Error("two snapshots share an id")
	}
}

func TestNewNilReport(t *testing.T) {
	g, _ := fixture()
	s := New("", g, nil, 0, nil)

	var buf bytes.Buffer
	if err := WriteJSON(s, &buf); err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if ds, ok := raw["diagnostics"].([]any); !ok || len(ds) != 0 {
		t.Errorf("diagnostics = %v, want empty array", raw["diagnostics"])
	}
}

func TestRoundTrip(t *testing.T) {
	g, rep := fixture()
	pos := []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := ExportJSON(New("/notes", g, pos, 3, rep), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	got, err := s.Graph(false)
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Errorf("graph = %d nodes %d edges, want %d, %d",
			got.NodeCount(), got.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	if !got.IsNeighbor(0, 1) {
		t.Error("a and b are no longer neighbours")
	}
	if p := s.Positions(); p[2] != pos[2] {
		t.Errorf("Positions()[2] = %v, want %v", p[2], pos[2])
	}
}

func TestGraphUnknownEdge(t *testing.T) {
	s := &Snapshot{
		Nodes: []Node{{ID: "a"}},
		Edges: []Edge{{From: "a", To: "b"}},
	}
	if _, err := s.Graph(false); err == nil {
		t.Error("Graph() accepted an edge to an unknown node")
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(bytes.NewBufferString("{")); err == nil {
		t.Error("ReadJSON() accepted malformed input")
	}
}
