// Package trimesh ingests and exports triangle meshes at the boundary
// of the visibility algorithms: triangle soups from mesh producers or
// STL files get welded into the indexed form the umbra package works
// on, and refined sub-meshes convert back to plain triangles for
// export.
package trimesh

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a 3D triangle defined by its three vertices.
type Triangle [3]r3.Vec

// Normal returns the triangle's unit normal for counter-clockwise
// vertex winding, or the zero vector for degenerate triangles.
func (t Triangle) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Reader is a streaming source of triangles. Mesh producers such as
// marching triangulation renderers sit behind this interface.
type Reader interface {
	// ReadTriangles reads up to len(t) triangles into t and returns
	// the number read. io.EOF signals the end of the mesh.
	ReadTriangles(t []Triangle) (int, error)
}

// ReadAll reads the full contents of a Reader and returns the slice
// read. It does not return io.EOF.
func ReadAll(r Reader) ([]Triangle, error) {
	var err error
	var nt int
	result := make([]Triangle, 0, 1<<12)
	buf := make([]Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		if err != nil {
			break
		}
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// sliceReader adapts an in-memory model to the Reader interface.
type sliceReader struct {
	buf []Triangle
}

// NewSliceReader returns a Reader serving the triangles of model.
func NewSliceReader(model []Triangle) Reader {
	return &sliceReader{buf: model}
}

func (b *sliceReader) ReadTriangles(t []Triangle) (int, error) {
	if len(b.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n, nil
}
