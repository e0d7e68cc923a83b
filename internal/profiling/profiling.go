package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame section timer. Sections are summed by name until the next BeginFrame.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameStart  time.Time
)

// Track returns a stop function that adds the elapsed time to name.
// Usage: defer profiling.Track("world.Update")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// BeginFrame clears the section totals and starts the frame clock
func BeginFrame() {
	mu.Lock()
	clear(frameTotals)
	frameStart = time.Now()
	mu.Unlock()
}

// FrameElapsed returns the time since BeginFrame
func FrameElapsed() time.Duration {
	mu.Lock()
	defer mu.Unlock()
	if frameStart.IsZero() {
		return 0
	}
	return time.Since(frameStart)
}

// Snapshot returns a copy of the current section totals
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats the n slowest sections, slowest first.
// Example: "world.Update:4.2ms, renderer.DrawAll:2.1ms"
func TopN(n int) string {
	type section struct {
		name string
		dur  time.Duration
	}
	snap := Snapshot()
	list := make([]section, 0, len(snap))
	for k, v := range snap {
		list = append(list, section{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))

	parts := make([]string, 0, n)
	for _, s := range list[:n] {
		ms := float64(s.dur.Microseconds()) / 1000
		parts = append(parts, s.name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms")
	}
	return strings.Join(parts, ", ")
}
