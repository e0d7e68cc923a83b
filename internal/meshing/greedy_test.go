package meshing

import (
	"context"
	"math/rand"
	"testing"

	"mini-voxel/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyGridMesh(t *testing.T) {
	assert.Empty(t, Mesh(voxel.NewGrid(16)))
	assert.Empty(t, Mesh(nil))
}

func TestSingleBlockMesh(t *testing.T) {
	g := voxel.NewGrid(16)
	_, err := g.Set(3, 4, 5, voxel.BlockTypeGrass)
	require.NoError(t, err)

	quads := Mesh(g)
	if len(quads) != 6 {
		t.Fatalf("single block: got %d quads, want 6", len(quads))
	}

	want := map[voxel.Face]mgl32.Vec3{
		voxel.FaceEast:   {4, 4, 5},
		voxel.FaceWest:   {3, 4, 5},
		voxel.FaceTop:    {3, 5, 5},
		voxel.FaceBottom: {3, 4, 5},
		voxel.FaceNorth:  {3, 4, 6},
		voxel.FaceSouth:  {3, 4, 5},
	}
	for _, q := range quads {
		assert.Equal(t, mgl32.Vec2{1, 1}, q.Extent, "face %s", q.Face)
		assert.Equal(t, voxel.BlockTypeGrass, q.Block)
		assert.Equal(t, want[q.Face], q.Origin, "face %s", q.Face)
		delete(want, q.Face)
	}
	assert.Empty(t, want, "every face direction emitted once")
}

func TestPassOrder(t *testing.T) {
	g := voxel.NewGrid(4)
	_, _ = g.Set(0, 0, 0, voxel.BlockTypeStone)

	var faces []voxel.Face
	for _, q := range Mesh(g) {
		faces = append(faces, q.Face)
	}
	assert.Equal(t, []voxel.Face{
		voxel.FaceEast, voxel.FaceWest,
		voxel.FaceTop, voxel.FaceBottom,
		voxel.FaceNorth, voxel.FaceSouth,
	}, faces)
}

func TestRowMergesIntoLongQuads(t *testing.T) {
	const n = 5
	g := voxel.NewGrid(8)
	for x := 0; x < n; x++ {
		_, _ = g.Set(x+1, 2, 2, voxel.BlockTypeDirt)
	}

	quads := Mesh(g)
	require.Len(t, quads, 6)

	areas := map[voxel.Face]int{}
	for _, q := range quads {
		areas[q.Face] = quadArea(q)
	}
	assert.Equal(t, 1, areas[voxel.FaceEast])
	assert.Equal(t, 1, areas[voxel.FaceWest])
	for _, f := range []voxel.Face{voxel.FaceTop, voxel.FaceBottom, voxel.FaceNorth, voxel.FaceSouth} {
		assert.Equal(t, n, areas[f], "face %s", f)
	}

	// X is the u axis for the Y and Z passes, so the run length lands in Extent[0].
	for _, q := range quads {
		if q.Face == voxel.FaceTop {
			assert.Equal(t, mgl32.Vec2{n, 1}, q.Extent)
			assert.Equal(t, mgl32.Vec3{1, 3, 2}, q.Origin)
		}
	}
}

func TestDifferentTypesDoNotMerge(t *testing.T) {
	g := voxel.NewGrid(4)
	_, _ = g.Set(0, 0, 0, voxel.BlockTypeDirt)
	_, _ = g.Set(1, 0, 0, voxel.BlockTypeStone)

	quads := Mesh(g)
	// 2 end caps + 4 sides * 2 types
	assert.Len(t, quads, 10)
}

func TestFullGridEmitsSixFaces(t *testing.T) {
	const n = 6
	g := voxel.NewGrid(n)
	g.Fill(0, 0, 0, n-1, n-1, n-1, voxel.BlockTypeStone)

	quads := Mesh(g)
	require.Len(t, quads, 6)
	for _, q := range quads {
		assert.Equal(t, n*n, quadArea(q), "face %s", q.Face)
	}
}

func TestEnclosedBlockContributesNoFaces(t *testing.T) {
	g := voxel.NewGrid(5)
	g.Fill(1, 1, 1, 3, 3, 3, voxel.BlockTypeStone)
	_, _ = g.Set(2, 2, 2, voxel.BlockTypeDirt)

	total := 0
	for _, q := range Mesh(g) {
		assert.NotEqual(t, voxel.BlockTypeDirt, q.Block, "enclosed block must not be visible")
		total += quadArea(q)
	}
	assert.Equal(t, 6*9, total)
}

func TestRandomGridCoverage(t *testing.T) {
	types := []voxel.BlockType{voxel.BlockTypeDirt, voxel.BlockTypeStone, voxel.BlockTypeGrass}
	for seed := int64(1); seed <= 8; seed++ {
		rng := rand.New(rand.NewSource(seed))
		const n = 10
		g := voxel.NewGrid(n)
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				for z := 0; z < n; z++ {
					if rng.Float32() < 0.45 {
						_, _ = g.Set(x, y, z, types[rng.Intn(len(types))])
					}
				}
			}
		}
		checkCoverage(t, g, Mesh(g))
	}
}

func TestMeshIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := voxel.NewGrid(12)
	for i := 0; i < 600; i++ {
		_, _ = g.Set(rng.Intn(12), rng.Intn(12), rng.Intn(12), voxel.BlockType(1+rng.Intn(3)))
	}
	assert.Equal(t, Mesh(g), Mesh(g.Clone()))
}

func TestMeshContextCancelled(t *testing.T) {
	g := voxel.NewGrid(8)
	_, _ = g.Set(1, 1, 1, voxel.BlockTypeStone)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	quads, err := MeshContext(ctx, g)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, quads)
}

// checkCoverage asserts that quads cover every exposed face exactly once,
// with the right block type, and nothing else.
func checkCoverage(t *testing.T, g *voxel.Grid, quads []voxel.Quad) {
	t.Helper()
	type key struct {
		face    voxel.Face
		x, y, z int
	}
	covered := map[key]bool{}

	for _, q := range quads {
		p := passes[indexOfFace(q.Face)]
		for du := 0; du < int(q.Extent[0]); du++ {
			for dv := 0; dv < int(q.Extent[1]); dv++ {
				var pos [3]int
				pos[p.axis] = int(q.Origin[p.axis])
				if p.forward {
					pos[p.axis]--
				}
				pos[p.u] = int(q.Origin[p.u]) + du
				pos[p.v] = int(q.Origin[p.v]) + dv

				k := key{q.Face, pos[0], pos[1], pos[2]}
				if covered[k] {
					t.Fatalf("face %s at %v covered twice", q.Face, pos)
				}
				covered[k] = true

				if got := g.Get(pos[0], pos[1], pos[2]); got != q.Block {
					t.Fatalf("quad block %s over cell %v holding %s", q.Block, pos, got)
				}
				dx, dy, dz := q.Face.Normal()
				if !g.Get(pos[0]+dx, pos[1]+dy, pos[2]+dz).IsAir() {
					t.Fatalf("face %s at %v is not exposed", q.Face, pos)
				}
			}
		}
	}

	exposed := 0
	n := g.Size()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				if g.Get(x, y, z).IsAir() {
					continue
				}
				for f := voxel.Face(0); f < voxel.NumFaces; f++ {
					dx, dy, dz := f.Normal()
					if g.Get(x+dx, y+dy, z+dz).IsAir() {
						exposed++
					}
				}
			}
		}
	}
	if len(covered) != exposed {
		t.Fatalf("covered %d faces, want %d exposed", len(covered), exposed)
	}
}

func indexOfFace(f voxel.Face) int {
	for i, p := range passes {
		if p.face == f {
			return i
		}
	}
	panic("unknown face")
}

func BenchmarkMesh_FullSurface(b *testing.B) {
	g := voxel.NewGrid(32)
	g.Fill(0, 0, 0, 31, 15, 31, voxel.BlockTypeStone)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Mesh(g)
	}
}

func BenchmarkMesh_Checkerboard(b *testing.B) {
	g := voxel.NewGrid(32)
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			for z := 0; z < 32; z++ {
				if (x+y+z)%2 == 0 {
					_, _ = g.Set(x, y, z, voxel.BlockTypeDirt)
				}
			}
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Mesh(g)
	}
}

func quadArea(q voxel.Quad) int {
	return int(q.Extent[0]) * int(q.Extent[1])
}
