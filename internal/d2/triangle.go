package d2

import "golang.org/x/exp/constraints"

// Screen-space triangle predicates used by visibility classification.
// They are generic over the floating point precision chosen by the
// caller. All comparisons are strict: a point exactly on an edge or
// boxes sharing only an edge do not count. The strictness is a
// deliberate tie-break, not an accident.

// Tri is a triangle on the screen plane.
type Tri[T constraints.Float] [3][2]T

// Bounds returns the bounding box of the triangle as the sequence
// {minX, maxX, minY, maxY}.
func (t Tri[T]) Bounds() [4]T {
	var bb [4]T
	bb[0], bb[1] = minmax3(t[0][0], t[1][0], t[2][0])
	bb[2], bb[3] = minmax3(t[0][1], t[1][1], t[2][1])
	return bb
}

// In reports whether p lies strictly inside the triangle. bb is the
// triangle's bounding box from Bounds, passed in since callers hold it
// precomputed. The box rejects most points before the three half-plane
// sign tests run. A point with any cross product exactly zero is on an
// edge and therefore outside, independent of winding orientation.
func (t Tri[T]) In(p [2]T, bb [4]T) bool {
	if !(bb[0] < p[0] && p[0] < bb[1] && bb[2] < p[1] && p[1] < bb[3]) {
		return false
	}
	// ((p-v1)×(v2-v1))·k for the three edges.
	c1 := (p[0]-t[0][0])*(t[1][1]-t[0][1]) - (p[1]-t[0][1])*(t[1][0]-t[0][0])
	c2 := (p[0]-t[1][0])*(t[2][1]-t[1][1]) - (p[1]-t[1][1])*(t[2][0]-t[1][0])
	c3 := (p[0]-t[2][0])*(t[0][1]-t[2][1]) - (p[1]-t[2][1])*(t[0][0]-t[2][0])
	return (c1 > 0 && c2 > 0 && c3 > 0) || (c1 < 0 && c2 < 0 && c3 < 0)
}

// BoundsOverlap reports whether two {minX, maxX, minY, maxY} boxes
// strictly overlap on both axes.
func BoundsOverlap[T constraints.Float](a, b [4]T) bool {
	return a[0] < b[1] && a[1] > b[0] && a[2] < b[3] && a[3] > b[2]
}

func minmax3[T constraints.Float](a, b, c T) (lo, hi T) {
	lo, hi = a, a
	if b < lo {
		lo = b
	} else if b > hi {
		hi = b
	}
	if c < lo {
		lo = c
	} else if c > hi {
		hi = c
	}
	return lo, hi
}
