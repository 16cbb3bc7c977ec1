// Package telemetry provides in-process metrics for the toolkit: counters,
// gauges and histograms over atomics, cheap enough to touch every tick.
// Snapshots serialize to JSON for an embedder's dump.
package telemetry

import (
	"encoding/json"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

// MetricType identifies the kind of metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the common interface for all metric types.
type Metric interface {
	Name() string
	Type() MetricType
}

// Labels is a set of dimensional labels.
type Labels map[string]string

// String renders labels in key order, so equal label sets render equally.
func (l Labels) String() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(l[k])
	}
	return b.String()
}

// Counter only goes up. All methods are safe on a nil receiver, so callers
// can hold one without checking how it was obtained.
type Counter struct {
	name   string
	labels Labels
	value  atomic.Int64
}

// NewCounter creates a counter.
func NewCounter(name string, labels Labels) *Counter {
	if labels == nil {
		labels = Labels{}
	}
	return &Counter{name: name, labels: labels}
}

func (c *Counter) Name() string     { return c.name }
func (c *Counter) Type() MetricType { return MetricTypeCounter }
func (c *Counter) Labels() Labels   { return c.labels }

// Inc adds one.
func (c *Counter) Inc() {
	if c != nil {
		c.value.Add(1)
	}
}

// Add adds delta. Negative deltas are dropped.
func (c *Counter) Add(delta int64) {
	if c != nil && delta > 0 {
		c.value.Add(delta)
	}
}

// Get returns the current value.
func (c *Counter) Get() int64 {
	if c == nil {
		return 0
	}
	return c.value.Load()
}

// MarshalJSON implements json.Marshaler.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   c.name,
		"type":   c.Type(),
		"labels": c.labels,
		"value":  c.Get(),
	})
}

// Gauge goes up and down. Nil-safe like Counter.
type Gauge struct {
	name   string
	labels Labels
	value  atomic.Int64
}

// NewGauge creates a gauge.
func NewGauge(name string, labels Labels) *Gauge {
	if labels == nil {
		labels = Labels{}
	}
	return &Gauge{name: name, labels: labels}
}

func (g *Gauge) Name() string     { return g.name }
func (g *Gauge) Type() MetricType { return MetricTypeGauge }
func (g *Gauge) Labels() Labels   { return g.labels }

// Set stores the value.
func (g *Gauge) Set(value int64) {
	if g != nil {
		g.value.Store(value)
	}
}

// Inc adds one.
func (g *Gauge) Inc() {
	if g != nil {
		g.value.Add(1)
	}
}

// Dec subtracts one.
func (g *Gauge) Dec() {
	if g != nil {
		g.value.Add(-1)
	}
}

// Get returns the current value.
func (g *Gauge) Get() int64 {
	if g == nil {
		return 0
	}
	return g.value.Load()
}

// MarshalJSON implements json.Marshaler.
func (g *Gauge) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   g.name,
		"type":   g.Type(),
		"labels": g.labels,
		"value":  g.Get(),
	})
}

// DefaultHistogramBuckets are frame-timing latency buckets in seconds:
// 1ms, 2ms, 5ms, 10ms, 16ms, 33ms, 50ms, 100ms, 250ms.
var DefaultHistogramBuckets = []float64{
	0.001, 0.002, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1, 0.25,
}

// Histogram counts observations into buckets by upper bound. The implicit
// last bucket catches everything past the configured bounds. Nil-safe.
type Histogram struct {
	name    string
	labels  Labels
	buckets []float64
	counts  []atomic.Int64
	sum     atomic.Int64 // nanoseconds, so the total stays atomic
	count   atomic.Int64
}

// NewHistogram creates a histogram. Nil buckets select the defaults.
func NewHistogram(name string, labels Labels, buckets []float64) *Histogram {
	if labels == nil {
		labels = Labels{}
	}
	if buckets == nil {
		buckets = DefaultHistogramBuckets
	}
	return &Histogram{
		name:    name,
		labels:  labels,
		buckets: buckets,
		counts:  make([]atomic.Int64, len(buckets)+1),
	}
}

func (h *Histogram) Name() string     { return h.name }
func (h *Histogram) Type() MetricType { return MetricTypeHistogram }
func (h *Histogram) Labels() Labels   { return h.labels }

// Observe records a value in seconds. Negative values clamp to zero.
func (h *Histogram) Observe(value float64) {
	if h == nil {
		return
	}
	if value < 0 {
		value = 0
	}
	i := 0
	for ; i < len(h.buckets); i++ {
		if value <= h.buckets[i] {
			break
		}
	}
	h.counts[i].Add(1)
	h.sum.Add(int64(value * 1e9))
	h.count.Add(1)
}

// ObserveDuration records a duration.
func (h *Histogram) ObserveDuration(d time.Duration) {
	if h != nil {
		h.Observe(d.Seconds())
	}
}

// GetCount returns the number of observations.
func (h *Histogram) GetCount() int64 {
	if h == nil {
		return 0
	}
	return h.count.Load()
}

// GetSum returns the sum of observed values, in seconds.
func (h *Histogram) GetSum() float64 {
	if h == nil {
		return 0
	}
	return float64(h.sum.Load()) / 1e9
}

// GetBuckets returns the per-bucket counts, overflow bucket last.
func (h *Histogram) GetBuckets() []int64 {
	if h == nil {
		return nil
	}
	out := make([]int64, len(h.counts))
	for i := range h.counts {
		out[i] = h.counts[i].Load()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":    h.name,
		"type":    h.Type(),
		"labels":  h.labels,
		"count":   h.GetCount(),
		"sum":     h.GetSum(),
		"buckets": h.GetBuckets(),
	})
}
