package graphics

import (
	"fmt"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/voxel"
	"mini-voxel/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// paletteSize matches uPalette in the fragment shader
const paletteSize = 16

var (
	skyColor = mgl32.Vec3{0.53, 0.72, 0.92}
	lightDir = mgl32.Vec3{0.3, 1.0, 0.45}.Normalize()
)

// RenderStats counts what the last DrawAll did
type RenderStats struct {
	Meshes int
	Drawn  int
	Culled int
	Empty  int
	Quads  int
}

// Renderer owns the chunk shader, the shared base quad and the registry
// of chunk meshes. It satisfies world.Renderer. Main thread only.
type Renderer struct {
	shader    *Shader
	base      *BaseQuad
	chunkSize int
	meshes    map[voxel.ChunkCoord]*ChunkMesh
	log       *logging.Logger

	// Frustum culling margin in blocks (inflates AABBs before testing)
	frustumMargin float32
	fogFar        float32
	stats         RenderStats
}

var _ world.Renderer = (*Renderer)(nil)

func NewRenderer(chunkSize int, log *logging.Logger) *Renderer {
	return &Renderer{
		chunkSize:     chunkSize,
		meshes:        make(map[voxel.ChunkCoord]*ChunkMesh),
		log:           log.With("renderer"),
		frustumMargin: 1.0,
		fogFar:        float32(chunkSize * 8),
	}
}

// Init compiles shaders and creates the base quad. gl.Init must have run.
func (r *Renderer) Init() error {
	shader, err := NewShaderFromSource(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return fmt.Errorf("chunk shader: %w", err)
	}
	r.shader = shader
	r.base = NewBaseQuad(r.log.With("gl"))

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(skyColor.X(), skyColor.Y(), skyColor.Z(), 1)
	r.log.Infof("renderer ready: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return nil
}

// SetFogDistance sets the distance (in blocks) at which terrain fades fully
func (r *Renderer) SetFogDistance(d float32) {
	if d > 0 {
		r.fogFar = d
	}
}

func (r *Renderer) NewMesh() world.MeshResource {
	return NewChunkMesh(r.base)
}

func (r *Renderer) RegisterMesh(coord voxel.ChunkCoord, mesh world.MeshResource) {
	cm, ok := mesh.(*ChunkMesh)
	if !ok {
		r.log.Warnf("ignoring foreign mesh type %T for %v", mesh, coord)
		return
	}
	r.meshes[coord] = cm
}

// DisposeMesh forgets the mesh; GPU memory is released by the owning chunk
func (r *Renderer) DisposeMesh(coord voxel.ChunkCoord) {
	delete(r.meshes, coord)
}

// Clear clears the color and depth buffers
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawAll draws every registered mesh that intersects the view frustum
func (r *Renderer) DrawAll(view, proj mgl32.Mat4) {
	defer profiling.Track("renderer.DrawAll")()

	r.stats = RenderStats{Meshes: len(r.meshes)}
	if r.shader == nil || len(r.meshes) == 0 {
		return
	}

	r.shader.Use()
	r.shader.SetMatrix4("uView", view)
	r.shader.SetMatrix4("uProj", proj)
	r.shader.SetVector3Array("uPalette", palette())
	r.shader.SetVector3("uLightDir", lightDir)
	r.shader.SetVector3("uFogColor", skyColor)
	r.shader.SetFloat("uFogFar", r.fogFar)

	// quads of both orientations share the unit strip winding
	gl.Disable(gl.CULL_FACE)

	frustum := NewFrustum(proj.Mul4(view))
	size := float32(r.chunkSize)
	for coord, mesh := range r.meshes {
		if mesh.Instances() == 0 {
			r.stats.Empty++
			continue
		}
		min, max := r.chunkAABB(coord)
		if !frustum.IntersectsAABB(min, max) {
			r.stats.Culled++
			continue
		}
		model := mgl32.Translate3D(float32(coord.X)*size, float32(coord.Y)*size, float32(coord.Z)*size)
		r.shader.SetMatrix4("uModel", model)
		mesh.Bind()
		mesh.Draw()
		r.stats.Drawn++
		r.stats.Quads += int(mesh.Instances())
	}
	gl.BindVertexArray(0)
	glCheckError(r.log, "DrawAll")
}

// chunkAABB returns the world-space bounds of a chunk, inflated by the margin
func (r *Renderer) chunkAABB(coord voxel.ChunkCoord) (mgl32.Vec3, mgl32.Vec3) {
	x, y, z := coord.Origin(r.chunkSize)
	min := mgl32.Vec3{float32(x), float32(y), float32(z)}
	s := float32(r.chunkSize)
	m := r.frustumMargin
	max := min.Add(mgl32.Vec3{s + m, s + m, s + m})
	min = min.Sub(mgl32.Vec3{m, m, m})
	return min, max
}

// Stats returns the counters of the last DrawAll
func (r *Renderer) Stats() RenderStats {
	return r.stats
}

// Dispose deletes the shader and the base quad. Chunk meshes must already
// have been released by the world.
func (r *Renderer) Dispose() {
	if n := len(r.meshes); n > 0 {
		r.log.Warnf("%d meshes still registered at dispose", n)
	}
	r.meshes = make(map[voxel.ChunkCoord]*ChunkMesh)
	if r.base != nil {
		r.base.Release()
		r.base = nil
	}
	if r.shader != nil {
		r.shader.Delete()
		r.shader = nil
	}
}

func palette() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, paletteSize)
	copy(out, voxel.Palette())
	return out
}
