package config

import "sync"

// Bounds for the runtime render distance, in chunks
const (
	MinRenderDistance = 1
	MaxRenderDistance = 64
)

// RenderSettings holds settings changed while the engine runs
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 12,
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance stores the render distance clamped to the allowed range and returns it
func SetRenderDistance(distance int) int {
	distance = max(MinRenderDistance, min(MaxRenderDistance, distance))

	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.renderDistance = distance
	return distance
}

// GetFarPlane returns a camera far plane that covers the render distance
func GetFarPlane(chunkSize int) float32 {
	return float32((GetRenderDistance()+2)*chunkSize) * 1.5
}
