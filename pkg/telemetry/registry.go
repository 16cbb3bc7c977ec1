package telemetry

import (
	"encoding/json"
	"sync"
)

// Registry holds named metrics in registration order. The getters create on
// first use so callers never check for existence.
type Registry struct {
	mu    sync.Mutex
	order []string
	byKey map[string]Metric
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Metric)}
}

func key(name string, labels Labels) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + labels.String() + "}"
}

// Counter returns the counter for name/labels, creating it on first use.
func (r *Registry) Counter(name string, labels Labels) *Counter {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(name, labels)
	if m, ok := r.byKey[k]; ok {
		if c, ok := m.(*Counter); ok {
			return c
		}
		return nil
	}
	c := NewCounter(name, labels)
	r.byKey[k] = c
	r.order = append(r.order, k)
	return c
}

// Gauge returns the gauge for name/labels, creating it on first use.
func (r *Registry) Gauge(name string, labels Labels) *Gauge {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(name, labels)
	if m, ok := r.byKey[k]; ok {
		if g, ok := m.(*Gauge); ok {
			return g
		}
		return nil
	}
	g := NewGauge(name, labels)
	r.byKey[k] = g
	r.order = append(r.order, k)
	return g
}

// Histogram returns the histogram for name/labels, creating it on first use.
// Buckets apply only on creation; nil selects the defaults.
func (r *Registry) Histogram(name string, labels Labels, buckets []float64) *Histogram {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(name, labels)
	if m, ok := r.byKey[k]; ok {
		if h, ok := m.(*Histogram); ok {
			return h
		}
		return nil
	}
	h := NewHistogram(name, labels, buckets)
	r.byKey[k] = h
	r.order = append(r.order, k)
	return h
}

// Each calls fn for every metric in registration order.
func (r *Registry) Each(fn func(Metric)) {
	if r == nil {
		return
	}
	r.mu.Lock()
	metrics := make([]Metric, 0, len(r.order))
	for _, k := range r.order {
		metrics = append(metrics, r.byKey[k])
	}
	r.mu.Unlock()
	for _, m := range metrics {
		fn(m)
	}
}

// Snapshot serializes every metric to JSON.
func (r *Registry) Snapshot() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	var metrics []Metric
	r.Each(func(m Metric) { metrics = append(metrics, m) })
	return json.Marshal(metrics)
}
