package trimesh_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deadsy/sdfx/obj"
	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/soypat/umbra"
	"github.com/soypat/umbra/trimesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// meshQuality is the marching cubes cell count along the longest axis.
// The bolt is long and thin, so low values flatten the thread relief
// and leave nothing self-occluded.
const meshQuality = 200

// TestBoltVisibility runs the whole pipeline on a real marched mesh:
// sdfx bolt model to STL, STL to indexed mesh, mesh through both
// visibility engines.
func TestBoltVisibility(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mesh pipeline test in short mode")
	}
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)

	path := filepath.Join(t.TempDir(), "bolt.stl")
	object, err := obj.Bolt(&obj.BoltParms{
		Thread:      "npt_1/2",
		Style:       "hex",
		Tolerance:   0.1,
		TotalLength: 20,
		ShankLength: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	sdfxrender.ToSTL(object, meshQuality, path, &sdfxrender.MarchingCubesOctree{})

	model, err := trimesh.OpenSTL(path)
	if model == nil {
		t.Fatal(err)
	}
	m, err := trimesh.Index(model, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) >= 3*len(m.Triangles) {
		t.Error("no vertices welded on a closed surface")
	}

	// Near-grazing view along the threads maximizes self-occlusion.
	view := r3.Vec{X: 1, Y: 0.25, Z: 0.1}
	class, err := umbra.RoughVisibility(view, m)
	if err != nil {
		t.Fatal(err)
	}
	fr, err := umbra.VisibleFractions(view, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(class) != len(m.Triangles) || len(fr) != len(m.Triangles) {
		t.Fatal("result length mismatch")
	}
	var visible, occluded int
	for i := range m.Triangles {
		if fr[i] < 0 || fr[i] > 1 {
			t.Fatalf("triangle %d fraction = %g outside [0,1]", i, fr[i])
		}
		backFacing := r3.Dot(m.Normals[i], view) <= 0
		if backFacing {
			if class[i] != umbra.Hidden {
				t.Fatalf("back facing triangle %d classified %v", i, class[i])
			}
			if fr[i] != 0 {
				t.Fatalf("back facing triangle %d fraction = %g", i, fr[i])
			}
			continue
		}
		if fr[i] > 0.99 {
			visible++
		} else if fr[i] < 0.5 {
			occluded++
		}
	}
	// The threaded bolt self-occludes: seen at a slant there must be
	// both clearly visible and mostly hidden front-facing triangles.
	if visible == 0 {
		t.Error("no visible front facing triangles on bolt")
	}
	if occluded == 0 {
		t.Error("no occluded front facing triangles on threaded bolt")
	}
}
