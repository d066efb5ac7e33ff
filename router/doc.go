// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(coord, metrics.Handler(reg))

Pass a nil metrics handler to leave /metrics unrouted.

# Endpoints

Operational:

	GET /health  - {"ok": true}
	GET /metrics - Prometheus text exposition

Rounds:

	POST /rounds             - Create round with options
	GET  /rounds/{id}        - Round, status and options
	POST /rounds/{id}/close  - Close (idempotent)

Voting (X-Voter-Id header optional):

	POST /vote               - round_id and option_id in the body
	POST /rounds/{id}/votes  - option_id in the body

Results:

	GET /rounds/{id}/results - Tally, most votes first

Every API route is wrapped in middleware.WithLogging.
*/
package router
