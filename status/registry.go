package status

import (
	"strings"
	"sync/atomic"
)

// Metric keys written by the animator, frame loop and terminal host
const (
	KeyFrames         = "frame.count"
	KeyFrameOverruns  = "frame.overruns"
	KeyFPS            = "frame.fps"
	KeyDrawCalls      = "draw.calls"
	KeyPoints         = "starfield.points"
	KeyStreaks        = "starfield.streaks"
	KeyStreaksSpawned = "starfield.streaks_spawned"
	KeyResizes        = "surface.resizes"
	KeyScale          = "surface.scale"
	KeyRunning        = "starfield.running"
	KeyPaused         = "frame.paused"
	KeyColorMode      = "terminal.color_mode"
	KeyConfigReloads  = "config.reloads"
)

// Registry groups metrics by kind
// Components cache pointers at construction; frame code writes directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// renderer is the type-erased view of a MetricMap
type renderer interface {
	value(key string) (string, bool)
	collect(out map[string]string)
	Len() int
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   newMetricMap(renderBool),
		Ints:    newMetricMap(renderInt),
		Floats:  newMetricMap(renderFloat),
		Strings: newMetricMap(renderString),
	}
}

func (r *Registry) maps() [4]renderer {
	return [4]renderer{r.Bools, r.Ints, r.Floats, r.Strings}
}

// Len returns the number of metrics of every kind
func (r *Registry) Len() int {
	n := 0
	for _, m := range r.maps() {
		n += m.Len()
	}
	return n
}

// Snapshot renders every metric, used for the shutdown log
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, r.Len())
	for _, m := range r.maps() {
		m.collect(out)
	}
	return out
}

// Line renders the selected keys as "name=value" pairs for the status line
// The name is the part after the last dot; unregistered keys are skipped
func (r *Registry) Line(keys ...string) string {
	var sb strings.Builder
	for _, k := range keys {
		v, ok := r.lookup(k)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k[strings.LastIndexByte(k, '.')+1:])
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}

func (r *Registry) lookup(key string) (string, bool) {
	for _, m := range r.maps() {
		if v, ok := m.value(key); ok {
			return v, true
		}
	}
	return "", false
}
