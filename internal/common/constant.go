// Package common contains constants and small helpers shared by the client
// packages.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound requests.
	AuthorizationHeader = "Authorization"
	// BearerScheme prefixes the token in AuthorizationHeader.
	BearerScheme = "Bearer "
	// RequestIDHeader correlates client log lines with server logs.
	RequestIDHeader = "X-Request-ID"
	// SessionNamespace is the durable-storage key of the session record.
	SessionNamespace = "auth-storage"
	// AppName is used for the data directory and the command name.
	AppName = "recipebook"
)
