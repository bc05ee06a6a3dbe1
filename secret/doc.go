// Package secret resolves credentials referenced from healthd configuration.
//
// Connection strings and auth secrets are rarely written into a config file
// verbatim. A value may instead reference them:
//
//   - ${VAR} expands to the environment variable VAR; a missing VAR is an
//     error. $$ emits a literal $. A bare $ is left untouched so passwords
//     containing $ survive.
//   - secretref:env:VAR resolves to the environment variable VAR.
//   - secretref:file:/run/secrets/pg_password resolves to the file contents
//     with trailing newlines removed.
//
// References may be the whole value or embedded in it:
//
//	dsn: postgres://app:secretref:file:/run/secrets/pg@db:5432/app
//
// Resolved values are never logged or included in errors.
package secret
