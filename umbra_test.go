package umbra_test

import (
	"math"
	"testing"

	"github.com/soypat/umbra"
	"gonum.org/v1/gonum/spatial/r3"
)

// cubeMesh returns the unit cube [0,1]^3 as an indexed mesh with
// outward normals. Triangle order: +Z face first (indices 0 and 1),
// then -Z, +X, -X, +Y, -Y.
func cubeMesh() umbra.Mesh {
	m := umbra.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Triangles: [][3]int{
			{4, 5, 6}, {4, 6, 7}, // +Z
			{0, 2, 1}, {0, 3, 2}, // -Z
			{1, 2, 6}, {1, 6, 5}, // +X
			{0, 4, 7}, {0, 7, 3}, // -X
			{2, 3, 7}, {2, 7, 6}, // +Y
			{0, 1, 5}, {0, 5, 4}, // -Y
		},
	}
	m.CalculateNormals()
	return m
}

// floatingTriangles builds a mesh of disconnected triangles, each
// given by three vertices, with normals from winding.
func floatingTriangles(tris ...[3]r3.Vec) umbra.Mesh {
	var m umbra.Mesh
	for _, tri := range tris {
		n := len(m.Vertices)
		m.Vertices = append(m.Vertices, tri[0], tri[1], tri[2])
		m.Triangles = append(m.Triangles, [3]int{n, n + 1, n + 2})
	}
	m.CalculateNormals()
	return m
}

func triangleArea(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

func TestMeshValidate(t *testing.T) {
	view := r3.Vec{Z: 1}
	m := cubeMesh()
	if err := m.Validate(); err != nil {
		t.Fatalf("valid cube mesh: %v", err)
	}

	dangling := cubeMesh()
	dangling.Triangles[3][1] = len(dangling.Vertices)
	if _, err := umbra.RoughVisibility(view, dangling); err == nil {
		t.Error("dangling vertex index not reported")
	}
	if _, err := umbra.VisibleFractions(view, dangling); err == nil {
		t.Error("dangling vertex index not reported by exact engine")
	}

	repeated := cubeMesh()
	repeated.Triangles[0][2] = repeated.Triangles[0][0]
	if err := repeated.Validate(); err == nil {
		t.Error("repeated vertex index not reported")
	}

	mismatched := cubeMesh()
	mismatched.Normals = mismatched.Normals[:5]
	if err := mismatched.Validate(); err == nil {
		t.Error("normal/triangle length mismatch not reported")
	}

	if _, err := umbra.RoughVisibility(r3.Vec{}, m); err == nil {
		t.Error("zero view direction not reported")
	}
	if _, _, err := umbra.VisibleFractionsRefined(r3.Vec{}, m); err == nil {
		t.Error("zero view direction not reported by exact engine")
	}
}

func TestCalculateNormals(t *testing.T) {
	m := cubeMesh()
	center := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	for i, n := range m.Normals {
		if math.Abs(r3.Norm(n)-1) > 1e-12 {
			t.Errorf("normal %d not unit length: %v", i, n)
		}
		// Outward: normal points away from the cube center.
		c := m.Vertices[m.Triangles[i][0]]
		if r3.Dot(n, r3.Sub(c, center)) <= 0 {
			t.Errorf("normal %d points inward: %v", i, n)
		}
	}

	degenerate := floatingTriangles(
		[3]r3.Vec{{X: 0}, {X: 1}, {X: 2}}, // collinear
	)
	if (degenerate.Normals[0] != r3.Vec{}) {
		t.Errorf("degenerate triangle normal = %v, want zero", degenerate.Normals[0])
	}
}

func TestEmptyMesh(t *testing.T) {
	var m umbra.Mesh
	class, err := umbra.RoughVisibility(r3.Vec{Z: 1}, m)
	if err != nil || len(class) != 0 {
		t.Errorf("empty mesh rough visibility: %v, %v", class, err)
	}
	fr, err := umbra.VisibleFractions(r3.Vec{Z: 1}, m)
	if err != nil || len(fr) != 0 {
		t.Errorf("empty mesh fractions: %v, %v", fr, err)
	}
}
