// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

import "net/http"

// NoopCollector discards every metric. It is the Repository's default
// collector so callers that do not care about metrics never need to wire
// Prometheus just to construct one.
type NoopCollector struct{}

// NewNoopCollector returns a Collector that discards everything.
func NewNoopCollector() *NoopCollector { return &NoopCollector{} }

func (NoopCollector) IncrementCounter(string, map[string]string)            {}
func (NoopCollector) AddCounter(string, float64, map[string]string)        {}
func (NoopCollector) SetGauge(string, float64, map[string]string)          {}
func (NoopCollector) ObserveHistogram(string, float64, map[string]string)  {}

func (NoopCollector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
