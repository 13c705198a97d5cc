// Package umbra determines the visibility (eclipsing) of triangulated
// surfaces bounding 3D objects when observed from a given direction.
// The surface may be a union of closed surfaces, such as the two lobes
// of an eclipsing binary star.
//
// The algorithms build on the concepts behind hidden surface removal:
// back-face culling, depth ordering of triangles (painter's algorithm)
// and screen-space occlusion testing of the depth-ordered triangles.
// See https://en.wikipedia.org/wiki/Hidden-surface_determination.
//
// RoughVisibility classifies every triangle as visible, partially hidden
// or hidden from vertex occlusion tests alone. VisibleFractions computes
// the exact visible area fraction of every triangle with polygon algebra
// and can refine partially hidden triangles into sub-triangles covering
// only their visible remainder.
package umbra

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Triangles reference Vertices by index
// and Normals holds the outward unit normal of each triangle, so that
// len(Normals) == len(Triangles). Vertex winding is counter-clockwise
// when a triangle is seen from outside the surface.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
	Normals   []r3.Vec
}

var errZeroView = errors.New("zero view direction")

// Validate checks the mesh is well formed: triangle indices in range,
// no repeated indices within a triangle and normals matching triangles
// one to one. It does not check the surface is closed.
func (m Mesh) Validate() error {
	if len(m.Normals) != len(m.Triangles) {
		return fmt.Errorf("got %d normals for %d triangles", len(m.Normals), len(m.Triangles))
	}
	for i, t := range m.Triangles {
		for _, vi := range t {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("triangle %d references vertex %d of %d", i, vi, len(m.Vertices))
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			return fmt.Errorf("triangle %d has a repeated vertex index", i)
		}
	}
	return nil
}

// CalculateNormals fills m.Normals with unit normals calculated from
// vertex winding, replacing existing normals. Degenerate triangles
// get a zero normal and are then excluded by visibility passes.
func (m *Mesh) CalculateNormals() {
	m.Normals = make([]r3.Vec, len(m.Triangles))
	for i, t := range m.Triangles {
		e1 := r3.Sub(m.Vertices[t[1]], m.Vertices[t[0]])
		e2 := r3.Sub(m.Vertices[t[2]], m.Vertices[t[0]])
		n := r3.Cross(e1, e2)
		if r3.Norm2(n) == 0 {
			continue // collinear vertices.
		}
		m.Normals[i] = r3.Unit(n)
	}
}

// validateView checks arguments common to all visibility entry points.
func validateView(view r3.Vec, m Mesh) error {
	if r3.Norm2(view) == 0 {
		return errZeroView
	}
	return m.Validate()
}
