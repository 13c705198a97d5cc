package umbra

import (
	"errors"
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/soypat/umbra/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// clipRange is the half-range of the integer screen coordinates handed
// to the clipping engine. The bounding box of the projected mesh is
// mapped to ±clipRange on each axis, giving a relative precision of
// about 1e-9 while keeping coordinate products within int64.
const clipRange = 1 << 30

// shadowCleanDist is the vertex merge distance, in integer screen
// units, applied to the shadow after every union to bound the growth
// of its polygon complexity.
const shadowCleanDist = 2

// refineFracTol is the fraction band treated as fully hidden or fully
// visible by refinement. Shadow cleanup shifts vertices by up to
// shadowCleanDist integer units, leaving sliver remainders of relative
// area up to a few parts in 1e9 on exact shared edges. Slivers below
// the band are clipping noise, not geometry worth remeshing.
const refineFracTol = 1e-7

var errClipFailed = errors.New("polygon clipping failed")

// VisibleFractions returns the fraction of each triangle's area that
// remains visible to an observer in direction view, in [0, 1].
// Triangles facing away from the observer have fraction 0.
//
// The fractions are exact up to the clipping engine's precision:
// triangles are processed nearest first while their footprints
// accumulate into a shadow region, and each triangle's visible
// remainder is the polygon difference between its own footprint and
// the shadow of everything nearer.
func VisibleFractions(view r3.Vec, m Mesh) ([]float64, error) {
	fracs, _, err := visibleFractions(view, m, false)
	return fracs, err
}

// VisibleFractionsRefined is VisibleFractions plus mesh refinement:
// every partially visible triangle, with fraction between 0 and 1 by
// more than the clipping precision, yields a SubMesh triangulating its
// visible remainder.
func VisibleFractionsRefined(view r3.Vec, m Mesh) ([]float64, []SubMesh, error) {
	return visibleFractions(view, m, true)
}

func visibleFractions(view r3.Vec, m Mesh, refine bool) ([]float64, []SubMesh, error) {
	if err := validateView(view, m); err != nil {
		return nil, nil, err
	}
	t1, t2, w := screenBasis(view)
	cache := newScreenCache(len(m.Vertices), t1, t2, w)
	front := cullFront(m, cache)

	fracs := make([]float64, len(m.Triangles))
	if len(front) == 0 {
		return fracs, nil, nil // Nothing faces the observer.
	}

	// Bounding box of the projected front-facing set, used to rescale
	// screen coordinates into the clipper's integer domain.
	bb := d2.Box{Min: d2.Elem(math.MaxFloat64), Max: d2.Elem(-math.MaxFloat64)}
	for i, done := range cache.done {
		if done {
			bb = bb.Include(r2.Vec{X: cache.pts[i].X, Y: cache.pts[i].Y})
		}
	}
	sc, ok := newClipScale(bb)
	if !ok {
		return fracs, nil, nil // Whole mesh projects onto a segment.
	}
	ints := make([]*clipper.IntPoint, len(m.Vertices))
	for i, done := range cache.done {
		if done {
			ints[i] = sc.toClip(cache.pts[i])
		}
	}

	var subs []SubMesh
	var shadow clipper.Paths // Union of footprints nearer than the current triangle.
	for _, ft := range front {
		t := m.Triangles[ft.index]
		s := clipper.Path{ints[t[0]], ints[t[1]], ints[t[2]]}
		area := math.Abs(clipper.Area(s))
		if area == 0 {
			continue // Degenerate footprint: no visible area, casts no shadow.
		}
		if len(shadow) == 0 {
			// Nearest triangle: nothing can occlude it.
			fracs[ft.index] = 1
			shadow = clipper.Paths{s}
			continue
		}

		// Visible remainder P = footprint - shadow.
		c := clipper.NewClipper(clipper.IoNone)
		c.AddPath(s, clipper.PtSubject, true)
		c.AddPaths(shadow, clipper.PtClip, true)
		remainder, ok := c.Execute1(clipper.CtDifference, clipper.PftNonZero, clipper.PftNonZero)
		if !ok {
			return nil, nil, errClipFailed
		}
		// Round-off can push the ratio infinitesimally above 1.
		frac := math.Min(1, pathsArea(remainder)/area)
		fracs[ft.index] = frac
		if refine && frac > refineFracTol && frac < 1-refineFracTol {
			if sub, ok := refineTriangle(m, ft.index, cache, sc, remainder); ok {
				subs = append(subs, sub)
			}
		}

		// Grow the shadow: S = S ∪ footprint.
		c = clipper.NewClipper(clipper.IoNone)
		c.AddPath(s, clipper.PtSubject, true)
		c.AddPaths(shadow, clipper.PtClip, true)
		merged, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
		if !ok {
			return nil, nil, errClipFailed
		}
		shadow = c.CleanPolygons(merged, shadowCleanDist)
	}
	return fracs, subs, nil
}

// clipScale maps screen coordinates to the clipper integer domain and
// back. The mapping centers the projected bounding box and stretches
// each axis to ±clipRange.
type clipScale struct {
	fx, fy float64 // integer units per screen unit.
	cx, cy float64 // screen-space center.
}

func newClipScale(bb d2.Box) (clipScale, bool) {
	size := bb.Size()
	if size.X <= 0 || size.Y <= 0 {
		return clipScale{}, false
	}
	center := bb.Center()
	return clipScale{
		fx: 2 * clipRange / size.X,
		fy: 2 * clipRange / size.Y,
		cx: center.X,
		cy: center.Y,
	}, true
}

func (s clipScale) toClip(p r3.Vec) *clipper.IntPoint {
	return &clipper.IntPoint{
		X: clipper.CInt(math.Round(s.fx * (p.X - s.cx))),
		Y: clipper.CInt(math.Round(s.fy * (p.Y - s.cy))),
	}
}

func (s clipScale) toScreen(p *clipper.IntPoint) (x, y float64) {
	return float64(p.X)/s.fx + s.cx, float64(p.Y)/s.fy + s.cy
}

// pathsArea returns the total signed area of a clipper solution. Holes
// are wound opposite to their outer polygon so summing signed areas
// subtracts them.
func pathsArea(p clipper.Paths) float64 {
	var area float64
	for _, path := range p {
		area += clipper.Area(path)
	}
	return area
}
