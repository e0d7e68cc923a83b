package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical control, independent of the physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionFast
	ActionPlaceBlock
	ActionRemoveBlock
	ActionRenderDistanceUp
	ActionRenderDistanceDown
	ActionToggleCursor
	ActionShowStats
	ActionQuit
	ActionCount // sentinel for array sizing
)

// Manager tracks held and edge-triggered actions. GLFW callbacks feed it
// events; the frame loop reads it and calls PostUpdate once per frame.
type Manager struct {
	mu sync.RWMutex

	bindings map[glfw.Key][]Action

	held         [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager creates a manager with the default bindings
func NewManager() *Manager {
	m := &Manager{bindings: make(map[glfw.Key][]Action)}

	m.Bind(glfw.KeyW, ActionMoveForward)
	m.Bind(glfw.KeyS, ActionMoveBackward)
	m.Bind(glfw.KeyA, ActionMoveLeft)
	m.Bind(glfw.KeyD, ActionMoveRight)
	m.Bind(glfw.KeySpace, ActionMoveUp)
	m.Bind(glfw.KeyLeftShift, ActionMoveDown)
	m.Bind(glfw.KeyLeftControl, ActionFast)
	m.Bind(glfw.KeyE, ActionPlaceBlock)
	m.Bind(glfw.KeyQ, ActionRemoveBlock)
	m.Bind(glfw.KeyEqual, ActionRenderDistanceUp)
	m.Bind(glfw.KeyKPAdd, ActionRenderDistanceUp)
	m.Bind(glfw.KeyMinus, ActionRenderDistanceDown)
	m.Bind(glfw.KeyKPSubtract, ActionRenderDistanceDown)
	m.Bind(glfw.KeyTab, ActionToggleCursor)
	m.Bind(glfw.KeyF3, ActionShowStats)
	m.Bind(glfw.KeyEscape, ActionQuit)
	return m
}

// Bind adds an action to a key; a key may drive several actions
func (m *Manager) Bind(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[key] = append(m.bindings[key], action)
}

// HandleKeyEvent records a key event. Safe to call from a GLFW callback.
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	pressed := action == glfw.Press || action == glfw.Repeat

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, act := range m.bindings[key] {
		// edges are detected when the event arrives
		if pressed && !m.held[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.held[act] {
			m.justReleased[act] = true
		}
		m.held[act] = pressed
	}
}

// Attach installs the key callback on window
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
}

// PostUpdate clears edge flags; call at the end of each frame
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
}

func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.held[action]
}

// JustPressed is true only in the frame the action went down
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}

// Axis returns -1, 0 or 1 from a pair of opposing actions
func (m *Manager) Axis(positive, negative Action) float32 {
	var v float32
	if m.IsActive(positive) {
		v++
	}
	if m.IsActive(negative) {
		v--
	}
	return v
}
