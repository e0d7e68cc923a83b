package graphics

import (
	"mini-voxel/internal/logging"
	"mini-voxel/internal/voxel"
	"mini-voxel/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// BaseQuad is the unit quad vertex buffer shared by every chunk mesh.
// The renderer creates it once and destroys it once.
type BaseQuad struct {
	vbo uint32
	log *logging.Logger
}

// NewBaseQuad uploads the unit quad. Main thread only.
// GL errors from this quad and the meshes built on it are reported to log.
func NewBaseQuad(log *logging.Logger) *BaseQuad {
	b := &BaseQuad{log: log}
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(baseQuadVertices)*4, gl.Ptr(baseQuadVertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	glCheckError(b.log, "NewBaseQuad")
	return b
}

// Release deletes the buffer; later calls do nothing
func (b *BaseQuad) Release() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
}

// ChunkMesh is the instanced GPU geometry of one chunk: a VAO binding the
// shared base quad plus a per-chunk instance buffer of greedy quads.
type ChunkMesh struct {
	vao         uint32
	instanceVBO uint32
	instances   int32
	released    bool
	log         *logging.Logger
}

var _ world.MeshResource = (*ChunkMesh)(nil)

// NewChunkMesh creates the VAO and an empty instance buffer. Main thread only.
func NewChunkMesh(base *BaseQuad) *ChunkMesh {
	m := &ChunkMesh{log: base.log}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, base.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)

	gl.GenBuffers(1, &m.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.instanceVBO)
	stride := int32(InstanceFloats * 4)
	// origin, extent, face, block
	attrs := []struct {
		loc    uint32
		size   int32
		offset uintptr
	}{
		{1, 3, 0},
		{2, 2, 3 * 4},
		{3, 1, 5 * 4},
		{4, 1, 6 * 4},
	}
	for _, a := range attrs {
		gl.EnableVertexAttribArray(a.loc)
		gl.VertexAttribPointerWithOffset(a.loc, a.size, gl.FLOAT, false, stride, a.offset)
		gl.VertexAttribDivisor(a.loc, 1)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	glCheckError(m.log, "NewChunkMesh")
	return m
}

// Upload replaces the instance data with quads
func (m *ChunkMesh) Upload(quads []voxel.Quad) {
	if m.released {
		return
	}
	data := packInstances(quads)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.instanceVBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.instances = int32(len(quads))
	glCheckError(m.log, "ChunkMesh.Upload")
}

// Instances returns the number of quads last uploaded
func (m *ChunkMesh) Instances() int32 {
	return m.instances
}

func (m *ChunkMesh) Bind() {
	gl.BindVertexArray(m.vao)
}

func (m *ChunkMesh) Unbind() {
	gl.BindVertexArray(0)
}

// Draw issues one instanced draw; an empty mesh draws nothing
func (m *ChunkMesh) Draw() {
	if m.released || m.instances == 0 {
		return
	}
	gl.DrawArraysInstanced(gl.TRIANGLE_STRIP, 0, 4, m.instances)
}

// Release deletes the VAO and instance buffer. The base quad is left alone.
func (m *ChunkMesh) Release() {
	if m.released {
		return
	}
	m.released = true
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.instanceVBO)
	m.vao, m.instanceVBO, m.instances = 0, 0, 0
}
