package graphics

import (
	"mini-voxel/internal/voxel"
)

// InstanceFloats is the per-quad instance record size:
// origin xyz, extent uv, face id, block type.
const InstanceFloats = 7

// packInstances flattens quads into the instance buffer layout
func packInstances(quads []voxel.Quad) []float32 {
	if len(quads) == 0 {
		return nil
	}
	out := make([]float32, 0, len(quads)*InstanceFloats)
	for _, q := range quads {
		out = append(out,
			q.Origin[0], q.Origin[1], q.Origin[2],
			q.Extent[0], q.Extent[1],
			float32(q.Face),
			float32(q.Block),
		)
	}
	return out
}

// baseQuadVertices is the unit quad drawn as a triangle strip
var baseQuadVertices = []float32{
	0, 0,
	1, 0,
	0, 1,
	1, 1,
}
