package umbra

import (
	"github.com/soypat/umbra/internal/d2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Visibility is the coarse visibility class of a triangle. Within a
// pass a triangle only moves from Visible towards Hidden as occluders
// accumulate, never back.
type Visibility uint8

const (
	// Hidden triangles face away from the observer or have every
	// vertex covered by nearer triangles.
	Hidden Visibility = iota
	// PartiallyHidden triangles have some but not all vertices
	// covered, or a nearer triangle piercing their silhouette.
	PartiallyHidden
	// Visible triangles pass every occlusion test.
	Visible
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case PartiallyHidden:
		return "partially hidden"
	case Visible:
		return "visible"
	}
	return "unknown"
}

// RoughVisibility classifies every triangle of the mesh as seen by an
// observer in direction view. Triangles facing away from the observer
// are Hidden. The remaining triangles are tested nearest first: a
// triangle is Hidden once all of its vertices are covered by nearer
// triangles and PartiallyHidden if only some are, or if a nearer
// triangle has a vertex strictly inside its footprint. Rays from
// shared vertices cannot be blocked by the triangles sharing them, so
// shared vertices are exempt from the point tests.
//
// The classification is a heuristic counting eclipsed vertices rather
// than intersecting areas. It is reliable for meshes of triangles of
// similar shape and size, like those produced by marching
// triangulation, and can misclassify wildly irregular meshes. Use
// VisibleFractions when exact areas matter.
func RoughVisibility(view r3.Vec, m Mesh) ([]Visibility, error) {
	if err := validateView(view, m); err != nil {
		return nil, err
	}
	t1, t2, w := screenBasis(view)
	cache := newScreenCache(len(m.Vertices), t1, t2, w)
	front := cullFront(m, cache)

	class := make([]Visibility, len(m.Triangles)) // Hidden until proven otherwise.
	for _, ft := range front {
		class[ft.index] = Visible
	}

	// Screen footprints and bounding boxes in depth order.
	tris := make([]d2.Tri[float64], len(front))
	bbs := make([][4]float64, len(front))
	for i, ft := range front {
		for j, vi := range m.Triangles[ft.index] {
			p := cache.pts[vi]
			tris[i][j] = [2]float64{p.X, p.Y}
		}
		bbs[i] = tris[i].Bounds()
	}

	// unobstructed[k] is cleared once any nearer triangle covers
	// vertex k. Obstruction is shared between triangles using the
	// vertex, so the flag array spans the whole pass.
	unobstructed := make([]bool, len(m.Vertices))
	for i := range unobstructed {
		unobstructed[i] = true
	}

	for i := 1; i < len(front); i++ {
		ii := front[i].index
		ti := m.Triangles[ii]
		// Only triangles in front of triangle i can occlude it.
		for j := 0; j < i; j++ {
			jj := front[j].index
			if class[jj] == Hidden || !d2.BoundsOverlap(bbs[i], bbs[j]) {
				continue
			}
			tj := m.Triangles[jj]

			// Test whether vertices of triangle i are eclipsed by
			// triangle j. Vertices shared with j cannot be.
			var st [3]bool
			for k, kk := range ti {
				st[k] = unobstructed[kk]
				if st[k] && kk != tj[0] && kk != tj[1] && kk != tj[2] && tris[j].In(tris[i][k], bbs[j]) {
					st[k] = false
					unobstructed[kk] = false
				}
			}
			if !st[0] && !st[1] && !st[2] {
				class[ii] = Hidden
				break // Terminal, skip remaining occluders.
			} else if !(st[0] && st[1] && st[2]) {
				class[ii] = PartiallyHidden
			}

			// A nearer triangle may pierce the footprint of i without
			// covering any of its vertices.
			if class[ii] == Visible {
				for k, kk := range tj {
					if kk != ti[0] && kk != ti[1] && kk != ti[2] && tris[i].In(tris[j][k], bbs[i]) {
						class[ii] = PartiallyHidden
						break
					}
				}
			}
		}
	}
	return class, nil
}
