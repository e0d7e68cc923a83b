package meshing

import (
	"context"

	"mini-voxel/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// pass describes one face direction: the axis swept slice by slice, the two
// in-plane axes (u, v) of the 2D mask, and the sign of the face normal.
type pass struct {
	face    voxel.Face
	axis    int
	u, v    int
	forward bool
}

// passes run in fixed order: +X, -X, +Y, -Y, +Z, -Z
var passes = [voxel.NumFaces]pass{
	{face: voxel.FaceEast, axis: 0, u: 1, v: 2, forward: true},
	{face: voxel.FaceWest, axis: 0, u: 1, v: 2, forward: false},
	{face: voxel.FaceTop, axis: 1, u: 0, v: 2, forward: true},
	{face: voxel.FaceBottom, axis: 1, u: 0, v: 2, forward: false},
	{face: voxel.FaceNorth, axis: 2, u: 0, v: 1, forward: true},
	{face: voxel.FaceSouth, axis: 2, u: 0, v: 1, forward: false},
}

// Mesh converts a block grid into greedy-merged quads.
// Neighbours outside the grid count as air, so border faces are always emitted.
func Mesh(g *voxel.Grid) []voxel.Quad {
	quads, _ := MeshContext(context.Background(), g)
	return quads
}

// MeshContext is Mesh with cancellation checked between slices.
func MeshContext(ctx context.Context, g *voxel.Grid) ([]voxel.Quad, error) {
	if g == nil || g.Empty() {
		return nil, nil
	}

	n := g.Size()
	mask := make([]voxel.BlockType, n*n)
	quads := make([]voxel.Quad, 0, 64)

	for _, p := range passes {
		for d := 0; d < n; d++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !buildMask(g, p, d, mask) {
				continue
			}
			quads = mergeMask(quads, mask, n, p, d)
		}
	}
	return quads, nil
}

// buildMask fills mask for slice d of pass p and reports whether any cell is set.
// A cell holds the block type when the block is solid and its neighbour along
// the normal is air.
func buildMask(g *voxel.Grid, p pass, d int, mask []voxel.BlockType) bool {
	n := g.Size()
	step := -1
	if p.forward {
		step = 1
	}

	found := false
	var pos, nb [3]int
	pos[p.axis] = d
	for u := 0; u < n; u++ {
		pos[p.u] = u
		for v := 0; v < n; v++ {
			pos[p.v] = v
			b := g.Get(pos[0], pos[1], pos[2])
			if b.IsAir() {
				mask[u*n+v] = voxel.BlockTypeAir
				continue
			}
			nb = pos
			nb[p.axis] += step
			if g.Get(nb[0], nb[1], nb[2]).IsAir() {
				mask[u*n+v] = b
				found = true
			} else {
				mask[u*n+v] = voxel.BlockTypeAir
			}
		}
	}
	return found
}

// mergeMask greedily merges equal cells: u is scanned outer and v inner,
// each rectangle grows along v first, then along u while the whole v-span matches.
func mergeMask(quads []voxel.Quad, mask []voxel.BlockType, n int, p pass, d int) []voxel.Quad {
	plane := float32(d)
	if p.forward {
		plane++
	}

	for u := 0; u < n; u++ {
		for v := 0; v < n; {
			b := mask[u*n+v]
			if b.IsAir() {
				v++
				continue
			}

			// width along v
			w := 1
			for v+w < n && mask[u*n+v+w] == b {
				w++
			}

			// height along u
			h := 1
		grow:
			for u+h < n {
				row := (u + h) * n
				for k := 0; k < w; k++ {
					if mask[row+v+k] != b {
						break grow
					}
				}
				h++
			}

			var origin mgl32.Vec3
			origin[p.axis] = plane
			origin[p.u] = float32(u)
			origin[p.v] = float32(v)
			quads = append(quads, voxel.Quad{
				Origin: origin,
				Extent: mgl32.Vec2{float32(h), float32(w)},
				Face:   p.face,
				Block:  b,
			})

			for du := 0; du < h; du++ {
				row := (u + du) * n
				for k := 0; k < w; k++ {
					mask[row+v+k] = voxel.BlockTypeAir
				}
			}
			v += w
		}
	}
	return quads
}
