package trimesh_test

import (
	"math"
	"testing"

	"github.com/soypat/umbra"
	"github.com/soypat/umbra/internal/d3"
	"github.com/soypat/umbra/trimesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestIndexWeldsSharedVertices(t *testing.T) {
	// Two triangles sharing an edge: 6 soup vertices weld to 4.
	m, err := trimesh.Index(testModel()[:2], 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 4 {
		t.Errorf("got %d vertices, want 4", len(m.Vertices))
	}
	if len(m.Triangles) != 2 {
		t.Errorf("got %d triangles, want 2", len(m.Triangles))
	}
	// The shared edge (1,0,0)-(0,1,0) must reference the same
	// indices in both triangles.
	shared := 0
	for _, vi := range m.Triangles[0] {
		for _, vj := range m.Triangles[1] {
			if vi == vj {
				shared++
			}
		}
	}
	if shared != 2 {
		t.Errorf("triangles share %d vertices, want 2", shared)
	}
	for i, n := range m.Normals {
		if math.Abs(r3.Norm(n)-1) > 1e-12 {
			t.Errorf("normal %d not unit length: %v", i, n)
		}
	}
}

func TestIndexDropsCollapsedTriangles(t *testing.T) {
	model := testModel()[:1]
	// A needle triangle whose short edge is below the weld tolerance
	// collapses and must be dropped.
	model = append(model, trimesh.Triangle{
		{X: 5, Y: 5, Z: 5},
		{X: 5 + 1e-9, Y: 5, Z: 5},
		{X: 6, Y: 6, Z: 5},
	})
	m, err := trimesh.Index(model, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Triangles) != 1 {
		t.Errorf("got %d triangles, want 1 after dropping collapsed triangle", len(m.Triangles))
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestIndexBadInput(t *testing.T) {
	if _, err := trimesh.Index(nil, 0); err == nil {
		t.Error("empty model not reported")
	}
	if _, err := trimesh.Index(testModel(), 100); err == nil {
		t.Error("oversized tolerance not reported")
	}
}

func TestFromMeshRoundTrip(t *testing.T) {
	m, err := trimesh.Index(testModel(), 0)
	if err != nil {
		t.Fatal(err)
	}
	model := trimesh.FromMesh(m)
	if len(model) != len(m.Triangles) {
		t.Fatalf("got %d triangles, want %d", len(model), len(m.Triangles))
	}
	for i, tri := range model {
		for j := range tri {
			if !d3.EqualWithin(tri[j], m.Vertices[m.Triangles[i][j]], 0) {
				t.Errorf("triangle %d vertex %d mismatch", i, j)
			}
		}
	}
}

func TestFromSubMesh(t *testing.T) {
	sub := umbra.SubMesh{
		Parent:    3,
		Vertices:  []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		Triangles: [][3]int{{0, 1, 2}, {1, 3, 2}},
	}
	model := trimesh.FromSubMesh(sub)
	if len(model) != 2 {
		t.Fatalf("got %d triangles, want 2", len(model))
	}
	if model[1][1] != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("sub-mesh vertex not carried over: %v", model[1][1])
	}
}
