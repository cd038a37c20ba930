// Package remote talks to the catalog API.
//
// HTTPClient is the plain transport: one HTTP call per operation, no retries,
// errors mapped to the sentinels in this package. FailSoft wraps any Client and
// never returns an error; when the API cannot be reached it logs a warning and
// answers from local data or with locally synthesized values, so callers can
// keep working offline.
//
// HealthProbe queries the server's gRPC health service.
package remote
