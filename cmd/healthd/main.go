// Healthd serves the aggregated health of a service's dependencies over HTTP.
//
// Each configured indicator (postgres, pgx, mysql, sqlite, redis, memory or
// static) is checked on every request and the results are reduced to the
// worst status:
//
//	GET /health            aggregate, 503 when Down or OutOfService
//	GET /health/{name}     a single component
//	GET /health/liveness   process liveness, runs no checks
//	GET /metrics           prometheus metrics
//
// Usage:
//
//	# Serve with a configuration file
//	healthd serve --config /etc/healthd/healthd.yaml
//
//	# Override settings from the environment
//	HEALTHD_SERVER_ADDR=:9090 healthd serve
//
//	# Validate configuration and run every indicator once
//	healthd check --config healthd.yaml --run
//
//	# Probe a running endpoint (container HEALTHCHECK)
//	healthd probe http://localhost:8080/health
//
//	# Show version information
//	healthd version
package main

func main() {
	Execute()
}
