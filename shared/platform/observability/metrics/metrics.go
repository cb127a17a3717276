package metrics

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics defines the interface for metrics collection
type Metrics interface {
	IncrementCounter(name string, labels map[string]string)
	RecordValue(name string, value float64, labels map[string]string)
	RecordDuration(name string, duration time.Duration, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
}

// Snapshotter is implemented by collectors that can report their state
type Snapshotter interface {
	Snapshot() Snapshot
}

// DefaultBuckets are the upper bounds, in seconds, used for duration histograms
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// InMemoryMetrics keeps every series in process memory
type InMemoryMetrics struct {
	serviceName string
	buckets     []float64
	counters    map[string]*Counter
	gauges      map[string]*Gauge
	histograms  map[string]*Histogram
	mu          sync.RWMutex
}

// Counter represents a counter metric
type Counter struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  int64             `json:"value"`
}

// Gauge represents a gauge metric
type Gauge struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Histogram represents a histogram metric with cumulative buckets keyed by upper bound
type Histogram struct {
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels,omitempty"`
	Count   int64             `json:"count"`
	Sum     float64           `json:"sum"`
	Buckets map[string]int64  `json:"buckets"`
}

// Snapshot is a point-in-time copy of all series
type Snapshot struct {
	Service    string                `json:"service"`
	Counters   map[string]*Counter   `json:"counters"`
	Gauges     map[string]*Gauge     `json:"gauges"`
	Histograms map[string]*Histogram `json:"histograms"`
}

// NewMetrics creates a new in-memory metrics instance
func NewMetrics(serviceName string) (*InMemoryMetrics, error) {
	return &InMemoryMetrics{
		serviceName: serviceName,
		buckets:     DefaultBuckets,
		counters:    make(map[string]*Counter),
		gauges:      make(map[string]*Gauge),
		histograms:  make(map[string]*Histogram),
	}, nil
}

// IncrementCounter increments a counter metric
func (m *InMemoryMetrics) IncrementCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := seriesKey(name, labels)
	if counter, exists := m.counters[key]; exists {
		counter.Value++
		return
	}
	m.counters[key] = &Counter{Name: name, Labels: copyLabels(labels), Value: 1}
}

// RecordValue records an observation into a histogram
func (m *InMemoryMetrics) RecordValue(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := seriesKey(name, labels)
	histogram, exists := m.histograms[key]
	if !exists {
		histogram = &Histogram{
			Name:    name,
			Labels:  copyLabels(labels),
			Buckets: make(map[string]int64, len(m.buckets)+1),
		}
		m.histograms[key] = histogram
	}

	histogram.Count++
	histogram.Sum += value
	for _, bound := range m.buckets {
		if value <= bound {
			histogram.Buckets[formatBound(bound)]++
		}
	}
	histogram.Buckets["+Inf"]++
}

// RecordDuration records a duration in seconds
func (m *InMemoryMetrics) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	m.RecordValue(name, duration.Seconds(), labels)
}

// SetGauge sets a gauge metric value
func (m *InMemoryMetrics) SetGauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gauges[seriesKey(name, labels)] = &Gauge{Name: name, Labels: copyLabels(labels), Value: value}
}

// Snapshot returns a deep copy of all collected series
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Service:    m.serviceName,
		Counters:   make(map[string]*Counter, len(m.counters)),
		Gauges:     make(map[string]*Gauge, len(m.gauges)),
		Histograms: make(map[string]*Histogram, len(m.histograms)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = &Counter{Name: v.Name, Labels: copyLabels(v.Labels), Value: v.Value}
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = &Gauge{Name: v.Name, Labels: copyLabels(v.Labels), Value: v.Value}
	}
	for k, v := range m.histograms {
		buckets := make(map[string]int64, len(v.Buckets))
		for bk, bv := range v.Buckets {
			buckets[bk] = bv
		}
		snap.Histograms[k] = &Histogram{
			Name:    v.Name,
			Labels:  copyLabels(v.Labels),
			Count:   v.Count,
			Sum:     v.Sum,
			Buckets: buckets,
		}
	}
	return snap
}

// seriesKey builds name{k1=v1,k2=v2} with labels in sorted order
func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	b.WriteByte('}')
	return b.String()
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'g', -1, 64)
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// NoOpMetrics discards everything
type NoOpMetrics struct{}

// NewNoOpMetrics creates a no-op metrics instance
func NewNoOpMetrics() Metrics {
	return &NoOpMetrics{}
}

func (n *NoOpMetrics) IncrementCounter(name string, labels map[string]string)                      {}
func (n *NoOpMetrics) RecordValue(name string, value float64, labels map[string]string)            {}
func (n *NoOpMetrics) RecordDuration(name string, duration time.Duration, labels map[string]string) {}
func (n *NoOpMetrics) SetGauge(name string, value float64, labels map[string]string)               {}

// Timer measures an operation and records it on Stop
type Timer struct {
	metrics Metrics
	name    string
	labels  map[string]string
	start   time.Time
}

// StartTimer starts a new timer
func StartTimer(metrics Metrics, name string, labels map[string]string) *Timer {
	return &Timer{
		metrics: metrics,
		name:    name,
		labels:  labels,
		start:   time.Now(),
	}
}

// Stop records the elapsed time. Extra labels are merged over the timer's labels.
func (t *Timer) Stop(extra ...map[string]string) time.Duration {
	duration := time.Since(t.start)
	labels := t.labels
	if len(extra) > 0 {
		labels = copyLabels(t.labels)
		if labels == nil {
			labels = make(map[string]string)
		}
		for _, e := range extra {
			for k, v := range e {
				labels[k] = v
			}
		}
	}
	t.metrics.RecordDuration(t.name, duration, labels)
	return duration
}
