package umbra

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// screenBasis returns the right-handed orthonormal basis {t1, t2, w}
// of the observer's screen. w is the unit vector along view and t1, t2
// span the screen plane orthogonal to it. The basis is deterministic:
// t1 is built from a fixed auxiliary axis (+Z, or +X when view is
// nearly parallel to +Z) so repeated calls with the same view always
// return the same basis. view must be nonzero.
func screenBasis(view r3.Vec) (t1, t2, w r3.Vec) {
	w = r3.Unit(view)
	aux := r3.Vec{Z: 1}
	if math.Abs(w.Z) > 1-1e-8 {
		aux = r3.Vec{X: 1}
	}
	t1 = r3.Unit(r3.Cross(aux, w))
	t2 = r3.Cross(w, t1)
	return t1, t2, w
}
