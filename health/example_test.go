package health_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/healthkit/health"
)

func ExampleWorst() {
	fmt.Println(health.Worst())
	fmt.Println(health.Worst(health.StatusUp, health.StatusDown))
	fmt.Println(health.Worst(health.StatusDown, health.StatusOutOfService))
	// Output:
	// Up
	// Down
	// OutOfService
}

func ExampleNewBuilder() {
	h := health.NewBuilder().
		WithIndicator(health.StaticIndicator("upper", health.Up())).
		WithIndicator(health.StaticIndicator("downer", health.Down())).
		Build()

	details := h.Details(context.Background())

	fmt.Println("Status:", details.Status)
	fmt.Println("HTTP:", details.HTTPStatusCode())
	fmt.Println("Components:", details.Names())
	// Output:
	// Status: Down
	// HTTP: 503
	// Components: [downer upper]
}

func ExampleNewPingIndicator() {
	reachable := health.PingerFunc(func(ctx context.Context) error { return nil })
	refused := health.PingerFunc(func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	ctx := context.Background()
	fmt.Println(health.NewPingIndicator("primary", reachable).Check(ctx).Status)
	fmt.Println(health.NewPingIndicator("replica", refused).Check(ctx).Status)
	// Output:
	// Up
	// Down
}

func ExampleNewIndicatorFunc() {
	queue := health.NewIndicatorFunc("queue", func(ctx context.Context) health.Detail {
		return health.Up().WithDetail("depth", "12")
	})

	detail := queue.Check(context.Background())
	depth, _ := detail.Get("depth")

	fmt.Println("Indicator:", queue.Name())
	fmt.Println("Status:", detail.Status)
	fmt.Println("Depth:", depth)
	// Output:
	// Indicator: queue
	// Status: Up
	// Depth: 12
}

func ExampleBuilder_BuildStrict() {
	_, err := health.NewBuilder().
		WithIndicator(health.StaticIndicator("db", health.Up())).
		WithIndicator(health.StaticIndicator("db", health.Down())).
		BuildStrict()

	fmt.Println(errors.Is(err, health.ErrDuplicateIndicator))
	// Output:
	// true
}

func ExampleHandler() {
	h := health.NewBuilder().
		WithIndicator(health.StaticIndicator("custom", health.Up())).
		Build()

	rec := httptest.NewRecorder()
	health.Handler(h)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	body, _ := io.ReadAll(rec.Body)
	fmt.Println(rec.Code)
	fmt.Print(string(body))
	// Output:
	// 200
	// {"status":"Up","components":{"custom":{"status":"Up","details":{}}}}
}

func ExampleRegisterHandlers() {
	h := health.NewBuilder().
		WithIndicator(health.StaticIndicator("maintenance", health.OutOfService())).
		Build()

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, h, "/health")

	for _, path := range []string{"/health", "/health/maintenance", "/health/liveness"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		fmt.Println(path, rec.Code)
	}
	// Output:
	// /health 503
	// /health/maintenance 503
	// /health/liveness 200
}

func ExampleCustom() {
	degraded := health.Custom("Degraded")

	fmt.Println(degraded)
	fmt.Println(health.Worst(health.StatusUnknown, degraded))
	fmt.Println(degraded.HTTPStatusCode())
	// Output:
	// Degraded
	// Degraded
	// 200
}
