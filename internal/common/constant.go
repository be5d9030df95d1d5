package common

// AuthorizationHeader is the HTTP header that carries the bearer access token
// on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix is prepended to the access token in the authorization header.
const BearerPrefix = "Bearer "

// IdempotencyKeyHeader carries a per-send unique key so the server can
// deduplicate retried message submissions.
const IdempotencyKeyHeader = "X-Idempotency-Key"
