package status

import "sync"

// MetricMap lazily allocates one metric per key and renders it for display
// Components fetch pointers once while wiring up; the frame path only touches the atomics
type MetricMap[T any] struct {
	mu     sync.Mutex
	items  map[string]*T
	render func(*T) string
}

func newMetricMap[T any](render func(*T) string) *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T), render: render}
}

// Get returns the metric for key, allocating on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr := new(T)
	m.items[key] = ptr
	return ptr
}

func (m *MetricMap[T]) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

func (m *MetricMap[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// value renders one metric, false when key was never registered
func (m *MetricMap[T]) value(key string) (string, bool) {
	m.mu.Lock()
	ptr, ok := m.items[key]
	m.mu.Unlock()
	if !ok {
		return "", false
	}
	return m.render(ptr), true
}

// collect renders every metric into out
func (m *MetricMap[T]) collect(out map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, ptr := range m.items {
		out[k] = m.render(ptr)
	}
}
