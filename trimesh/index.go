package trimesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/umbra"
	"github.com/soypat/umbra/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Index builds an indexed mesh from a triangle soup, welding vertices
// closer than vertexTol so shared vertices regain a single identity.
// The visibility algorithms rely on that identity: vertices shared
// between neighbour triangles are exempt from their mutual occlusion
// tests. Normals are calculated from vertex winding.
//
// vertexTol should be of the order of 1/1000th of the size of the
// smallest triangle in the model. If set to 0 then it is inferred
// automatically. Triangles that collapse during welding are dropped.
func Index(model []Triangle, vertexTolOrZero float64) (umbra.Mesh, error) {
	if len(model) == 0 {
		return umbra.Mesh{}, errors.New("empty triangle slice")
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for i := range model {
		for j, vert := range model[i] {
			bb = bb.Include(vert)
			// Calculate minimum and maximum side lengths.
			vert2 := model[i][(j+1)%3]
			side2 := r3.Norm2(r3.Sub(vert2, vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	tol := vertexTolOrZero
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return umbra.Mesh{}, fmt.Errorf("vertex tolerance too large to preserve the mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	maxDim := d3.Max(bb.Size())
	div := int64(maxDim/tol + 1e-12)
	if div <= 0 {
		return umbra.Mesh{}, errors.New("tolerance larger than model size")
	}
	if div > math.MaxInt64/2 {
		return umbra.Mesh{}, errors.New("tolerance too small. overflowed int64")
	}

	var m umbra.Mesh
	// Vertex index cache keyed by position quantized to tol.
	cache := make(map[[3]int64]int)
	ri := 1 / tol
	for _, tri := range model {
		var t [3]int
		for j, vert := range tri {
			v := r3.Scale(ri, vert)
			vi := [3]int64{int64(v.X), int64(v.Y), int64(v.Z)}
			vertexIdx, ok := cache[vi]
			if !ok {
				vertexIdx = len(m.Vertices)
				cache[vi] = vertexIdx
				m.Vertices = append(m.Vertices, vert)
			}
			t[j] = vertexIdx
		}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			continue // Triangle collapsed by welding.
		}
		m.Triangles = append(m.Triangles, t)
	}
	m.CalculateNormals()
	return m, nil
}

// FromMesh flattens an indexed mesh back into a triangle soup.
func FromMesh(m umbra.Mesh) []Triangle {
	model := make([]Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		model[i] = Triangle{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}
	}
	return model
}

// FromSubMesh flattens a refined sub-mesh into a triangle soup for
// export alongside fully visible triangles.
func FromSubMesh(s umbra.SubMesh) []Triangle {
	model := make([]Triangle, len(s.Triangles))
	for i, t := range s.Triangles {
		model[i] = Triangle{s.Vertices[t[0]], s.Vertices[t[1]], s.Vertices[t[2]]}
	}
	return model
}
