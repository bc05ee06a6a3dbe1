// Package auth decides whether a caller may see component health.
//
// Health payloads can reveal topology: which databases exist and the error
// strings their drivers return. Authorized lets a handler render components
// only for callers presenting valid credentials while everyone still gets the
// overall status. Require rejects such callers outright.
//
// Two credential kinds are supported and may be combined with Chain:
//
//   - APIKeys: static keys in the X-API-Key header, stored as SHA-256 digests.
//   - JWT: HMAC-signed bearer tokens in the Authorization header.
package auth
