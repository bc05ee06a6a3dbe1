// Package resilience bounds the cost of individual health indicators.
//
// The aggregator in package health applies no timeout and no concurrency
// limit of its own; a slow dependency stalls the whole run. The wrappers here
// let each indicator bound itself:
//
//   - WithTimeout reports Down once a check exceeds its deadline.
//   - WithBulkhead limits concurrent checks and reports Down when full.
//
// A check that could not run to completion is a failure and reports Down,
// never Unknown: Unknown outranks Down but answers 200.
//
// Every wrapper runs the underlying check on each call. Nothing is cached.
//
// # Usage
//
//	ind := resilience.Decorate(database.NewSQL("postgres", db, "postgres"),
//	    resilience.UseBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 2})),
//	    resilience.UseTimeout(2*time.Second),
//	)
package resilience
