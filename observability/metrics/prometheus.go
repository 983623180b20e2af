// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements Collector using Prometheus client_golang.
type PrometheusCollector struct {
	mu         sync.RWMutex
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusCollector creates a collector with its own registry.
func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (p *PrometheusCollector) IncrementCounter(name string, labels map[string]string) {
	p.AddCounter(name, 1, labels)
}

func (p *PrometheusCollector) AddCounter(name string, value float64, labels map[string]string) {
	p.getOrCreateCounter(name, labels).With(prometheus.Labels(labels)).Add(value)
}

func (p *PrometheusCollector) SetGauge(name string, value float64, labels map[string]string) {
	p.getOrCreateGauge(name, labels).With(prometheus.Labels(labels)).Set(value)
}

func (p *PrometheusCollector) ObserveHistogram(name string, value float64, labels map[string]string) {
	p.getOrCreateHistogram(name, labels).With(prometheus.Labels(labels)).Observe(value)
}

// Handler returns an HTTP handler for exposing metrics.
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusCollector) getOrCreateCounter(name string, labels map[string]string) *prometheus.CounterVec {
	p.mu.RLock()
	counter, ok := p.counters[name]
	p.mu.RUnlock()
	if ok {
		return counter
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if counter, ok = p.counters[name]; ok {
		return counter
	}
	counter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "Auto-generated counter metric: " + name,
	}, labelNames(labels))
	p.registry.MustRegister(counter)
	p.counters[name] = counter
	return counter
}

func (p *PrometheusCollector) getOrCreateGauge(name string, labels map[string]string) *prometheus.GaugeVec {
	p.mu.RLock()
	gauge, ok := p.gauges[name]
	p.mu.RUnlock()
	if ok {
		return gauge
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gauge, ok = p.gauges[name]; ok {
		return gauge
	}
	gauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: "Auto-generated gauge metric: " + name,
	}, labelNames(labels))
	p.registry.MustRegister(gauge)
	p.gauges[name] = gauge
	return gauge
}

func (p *PrometheusCollector) getOrCreateHistogram(name string, labels map[string]string) *prometheus.HistogramVec {
	p.mu.RLock()
	histogram, ok := p.histograms[name]
	p.mu.RUnlock()
	if ok {
		return histogram
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if histogram, ok = p.histograms[name]; ok {
		return histogram
	}
	histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    "Auto-generated histogram metric: " + name,
		Buckets: prometheus.DefBuckets,
	}, labelNames(labels))
	p.registry.MustRegister(histogram)
	p.histograms[name] = histogram
	return histogram
}

func labelNames(labels map[string]string) []string {
	if len(labels) == 0 {
		return []string{}
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	return names
}
