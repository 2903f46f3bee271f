/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// StatsServer is a stats server interface
type StatsServer interface {
	SetCounter(key string, val int64)
	UpdateCounterBy(key string, count int64)
}

// Stats exports controller counters as prometheus gauges
type Stats struct {
	mux      sync.Mutex
	registry *prometheus.Registry
	gauges   map[string]prometheus.Gauge
	counters map[string]int64
}

// NewStats created new instance of Stats
func NewStats() *Stats {
	return &Stats{
		registry: prometheus.NewRegistry(),
		gauges:   map[string]prometheus.Gauge{},
		counters: map[string]int64{},
	}
}

func (s *Stats) gauge(key string) prometheus.Gauge {
	g, found := s.gauges[key]
	if found {
		return g
	}
	g = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stepclock",
		Name:      key,
		Help:      key,
	})
	if err := s.registry.Register(g); err != nil {
		are := &prometheus.AlreadyRegisteredError{}
		if errors.As(err, are) {
			g = are.ExistingCollector.(prometheus.Gauge)
		} else {
			log.Errorf("failed to register metric %s: %v", key, err)
		}
	}
	s.gauges[key] = g
	return g
}

// UpdateCounterBy will increment counter
func (s *Stats) UpdateCounterBy(key string, count int64) {
	s.mux.Lock()
	s.counters[key] += count
	s.gauge(key).Set(float64(s.counters[key]))
	s.mux.Unlock()
}

// SetCounter will set a counter to the provided value.
func (s *Stats) SetCounter(key string, val int64) {
	s.mux.Lock()
	s.counters[key] = val
	s.gauge(key).Set(float64(val))
	s.mux.Unlock()
}

// Get returns a map of counters
func (s *Stats) Get() map[string]int64 {
	ret := make(map[string]int64)
	s.mux.Lock()
	for key, val := range s.counters {
		ret[key] = val
	}
	s.mux.Unlock()
	return ret
}

// Start runs the monitoring http server
func (s *Stats) Start(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	))
	log.Infof("monitoring server on port %d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
