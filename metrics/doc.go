// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics is the observability sink for round and vote events.

The coordinator depends only on the Sink interface. Nop is used when
metrics are disabled and in tests; Prometheus records:

	voting_votes_total{round_id,round_name,option_id,option_label}  counter
	voting_round_open{round_id}                                     gauge, 1=open 0=closed
	worker_heartbeat{service}                                       scrape time

The registry is injected, never the global default:

	reg := metrics.NewRegistry()
	sink := metrics.NewPrometheus(reg, "roundvote")
	mux.Handle("GET /metrics", metrics.Handler(reg))
*/
package metrics
