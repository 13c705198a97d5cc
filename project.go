package umbra

import "gonum.org/v1/gonum/spatial/r3"

// screenCache projects mesh vertices onto the observer's screen basis,
// computing each vertex at most once. Many triangles share vertices so
// the lazy cache avoids repeated dot products. The cache lives for a
// single visibility pass.
type screenCache struct {
	t1, t2, w r3.Vec
	// pts[i] is the screen coordinate of vertex i: X along t1, Y along
	// t2 and Z the depth towards the observer. Valid only if done[i].
	pts  []r3.Vec
	done []bool
}

func newScreenCache(nvert int, t1, t2, w r3.Vec) *screenCache {
	return &screenCache{
		t1:   t1,
		t2:   t2,
		w:    w,
		pts:  make([]r3.Vec, nvert),
		done: make([]bool, nvert),
	}
}

// project returns the screen coordinate of vertex i, projecting v on
// first use.
func (c *screenCache) project(i int, v r3.Vec) r3.Vec {
	if !c.done[i] {
		c.pts[i] = r3.Vec{
			X: r3.Dot(c.t1, v),
			Y: r3.Dot(c.t2, v),
			Z: r3.Dot(c.w, v),
		}
		c.done[i] = true
	}
	return c.pts[i]
}
