package umbra

import (
	clipper "github.com/ctessum/go.clipper"
	libtess2 "github.com/hajimehoshi/go-libtess2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SubMesh is the triangulated visible remainder of a partially hidden
// triangle, reprojected onto the plane of its parent. Triangles index
// into Vertices. Parent is the index of the parent triangle in the
// mesh the sub-mesh was refined from.
type SubMesh struct {
	Parent    int
	Vertices  []r3.Vec
	Triangles [][3]int
}

// refineTriangle triangulates the visible remainder of triangle idx
// and lifts the result back into 3D. remainder may hold several
// disjoint polygons and holes; the tessellator resolves both with
// even-odd winding. Each new screen point is written as an affine
// combination of the parent's projected vertices by solving a 2x2
// linear system, and the same weights applied to the parent's 3D
// vertices give the 3D point. The solve is exact for points in the
// parent plane, which clipping the parent's own footprint guarantees.
//
// Returns false for remainders the tessellator rejects and for parents
// with a degenerate projection, whose affine system has no solution.
func refineTriangle(m Mesh, idx int, cache *screenCache, sc clipScale, remainder clipper.Paths) (SubMesh, bool) {
	t := m.Triangles[idx]
	p0, p1, p2 := cache.pts[t[0]], cache.pts[t[1]], cache.pts[t[2]]
	// Affine system matrix: columns are the parent's projected edges.
	a00, a01 := p1.X-p0.X, p2.X-p0.X
	a10, a11 := p1.Y-p0.Y, p2.Y-p0.Y
	det := a00*a11 - a01*a10
	if det == 0 {
		return SubMesh{}, false
	}

	contours := make([]libtess2.Contour, len(remainder))
	for j, path := range remainder {
		contour := make([]libtess2.Vertex, len(path))
		for i, p := range path {
			x, y := sc.toScreen(p)
			contour[i] = libtess2.Vertex{X: float32(x), Y: float32(y)}
		}
		contours[j] = contour
	}
	elements, vertices, err := libtess2.Tesselate(contours, libtess2.WindingRuleOdd)
	if err != nil || len(elements) == 0 {
		return SubMesh{}, false
	}

	v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	e1, e2 := r3.Sub(v1, v0), r3.Sub(v2, v0)
	sub := SubMesh{
		Parent:    idx,
		Vertices:  make([]r3.Vec, len(vertices)),
		Triangles: make([][3]int, 0, len(elements)/3),
	}
	for i, u := range vertices {
		bx := float64(u.X) - p0.X
		by := float64(u.Y) - p0.Y
		// Solve A x = b for the affine weights of u.
		x0 := (a11*bx - a01*by) / det
		x1 := (a00*by - a10*bx) / det
		sub.Vertices[i] = r3.Add(v0, r3.Add(r3.Scale(x0, e1), r3.Scale(x1, e2)))
	}
	for i := 0; i+2 < len(elements); i += 3 {
		va, vb, vc := elements[i], elements[i+1], elements[i+2]
		if va < 0 || vb < 0 || vc < 0 {
			continue // Undefined element vertex.
		}
		sub.Triangles = append(sub.Triangles, [3]int{va, vb, vc})
	}
	return sub, len(sub.Triangles) > 0
}
