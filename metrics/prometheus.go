// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus is a Sink backed by a caller-owned registry
type Prometheus struct {
	votes     *prometheus.CounterVec
	roundOpen *prometheus.GaugeVec
}

// NewPrometheus registers the voting collectors on reg
func NewPrometheus(reg prometheus.Registerer, service string) *Prometheus {
	factory := promauto.With(reg)

	p := &Prometheus{
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voting_votes_total",
			Help: "Votes by round/option",
		}, []string{"round_id", "round_name", "option_id", "option_label"}),
		roundOpen: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "voting_round_open",
			Help: "1=open,0=closed",
		}, []string{"round_id"}),
	}

	// Reports the scrape time, so a stale value means the process is gone
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "worker_heartbeat",
		Help:        "Worker heartbeat",
		ConstLabels: prometheus.Labels{"service": service},
	}, func() float64 {
		return float64(time.Now().Unix())
	})

	return p
}

func (p *Prometheus) OnVoteAccepted(roundID, roundName, optionID, optionLabel string) {
	p.votes.WithLabelValues(roundID, roundName, optionID, optionLabel).Inc()
}

func (p *Prometheus) OnRoundOpened(roundID string) {
	p.roundOpen.WithLabelValues(roundID).Set(1)
}

func (p *Prometheus) OnRoundClosed(roundID string) {
	p.roundOpen.WithLabelValues(roundID).Set(0)
}

var _ Sink = (*Prometheus)(nil)

// NewRegistry returns a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry in the Prometheus text format
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
