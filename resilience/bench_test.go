package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/healthkit/health"
)

func BenchmarkWrappers(b *testing.B) {
	up := health.StaticIndicator("db", health.Up())
	ctx := context.Background()

	cases := []struct {
		name string
		ind  health.Indicator
	}{
		{"bare", up},
		{"timeout", WithTimeout(up, time.Second)},
		{"bulkhead", WithBulkhead(up, NewBulkhead(BulkheadConfig{MaxConcurrent: 100}))},
		{"decorated", Decorate(up,
			UseTimeout(time.Second),
			UseBulkhead(NewBulkhead(BulkheadConfig{MaxConcurrent: 100})),
		)},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = c.ind.Check(ctx)
			}
		})
	}
}

func BenchmarkBulkhead_Parallel(b *testing.B) {
	ind := WithBulkhead(health.StaticIndicator("db", health.Up()),
		NewBulkhead(BulkheadConfig{MaxConcurrent: 8, MaxWait: time.Second}))
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = ind.Check(ctx)
		}
	})
}
