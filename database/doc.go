// Package database provides health indicators for database connection pools
// and key-value stores.
//
// Every indicator performs a trivial round-trip against the backing resource:
// acquire a connection, run a validation query or ping, release. Success is
// reported as Up; any failure is reported as Down with the error message in
// the "error" detail. Indicators never own the pool they probe.
//
// This package does not register drivers. Import the driver for the
// database in use, for example:
//
//	import _ "github.com/lib/pq"
//
//	db, _ := sql.Open("postgres", dsn)
//	ind := database.NewSQL("postgres", db, "postgres")
package database
