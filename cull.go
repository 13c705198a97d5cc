package umbra

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// frontTriangle is a triangle that survived back-face culling, tagged
// with its maximal depth towards the observer for painter's ordering.
type frontTriangle struct {
	index int // triangle index into the mesh.
	depth float64
}

// cullFront discards triangles facing away from the observer and
// returns the survivors ordered nearest first. Culling keeps triangles
// with normal·view strictly positive, which is correct for closed
// surfaces only. The projection of every referenced vertex is left in
// the cache.
//
// Triangle i of the returned order can only be occluded by triangles
// before it: everything nearer is already final when i is examined.
// Equal depths are broken by ascending triangle index so the order is
// deterministic.
func cullFront(m Mesh, cache *screenCache) []frontTriangle {
	front := make([]frontTriangle, 0, len(m.Triangles)/2)
	for i, t := range m.Triangles {
		if r3.Dot(m.Normals[i], cache.w) <= 0 {
			continue
		}
		p0 := cache.project(t[0], m.Vertices[t[0]])
		p1 := cache.project(t[1], m.Vertices[t[1]])
		p2 := cache.project(t[2], m.Vertices[t[2]])
		front = append(front, frontTriangle{index: i, depth: max3(p0.Z, p1.Z, p2.Z)})
	}
	sort.Slice(front, func(i, j int) bool {
		if front[i].depth != front[j].depth {
			return front[i].depth > front[j].depth // Nearest to observer first.
		}
		return front[i].index < front[j].index
	})
	return front
}

func max3(a, b, c float64) float64 {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}
