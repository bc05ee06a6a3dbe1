// Package health aggregates the health of a service's dependencies.
//
// An Indicator is a named probe for one dependency. A Health handle holds an
// immutable set of indicators, runs them all concurrently on every request,
// and reduces their results to a single worst Status.
//
// # Status Order
//
// Statuses are ordered by severity:
//
//	Up < Down < OutOfService < Unknown < Custom(name)
//
// Worst picks the maximum, and defaults to Up when there is nothing to
// compare. Only Down and OutOfService map to HTTP 503.
//
// # Basic Usage
//
//	h := health.NewBuilder().
//	    WithIndicator(health.NewPingIndicator("postgres", pool)).
//	    WithIndicator(health.NewMemoryIndicator(health.MemoryIndicatorConfig{})).
//	    Build()
//
//	details := h.Details(ctx)
//	if details.Status == health.StatusDown {
//	    log.Printf("unhealthy: %v", details.Components)
//	}
//
// Registering two indicators with the same name keeps the last one. Use
// Builder.BuildStrict to reject duplicates instead.
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, h, "/health")
//
// or, when the handle should travel with the request:
//
//	handler := health.Middleware(h)(mux)
//	mux.Handle("GET /health", health.ContextHandler())
//
// The response body has the form:
//
//	{"status":"Down","components":{"postgres":{"status":"Down","details":{}}}}
package health
