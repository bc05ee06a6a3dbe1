package database

// Validation queries run by SQL indicators.
const (
	MySQLValidationQuery    = "/* ping */ SELECT 1"
	PostgresValidationQuery = "SELECT 1"
	SQLiteValidationQuery   = "SELECT 1"
)

// ValidationQuery returns the validation query for a database/sql driver
// name. It returns "" for drivers without a known query, in which case
// indicators fall back to a ping.
func ValidationQuery(driver string) string {
	switch driver {
	case "mysql":
		return MySQLValidationQuery
	case "postgres", "pgx", "pgx/v5":
		return PostgresValidationQuery
	case "sqlite", "sqlite3":
		return SQLiteValidationQuery
	default:
		return ""
	}
}
