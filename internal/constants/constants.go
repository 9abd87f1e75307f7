package constants

const (
	// Pagination
	FirstPage       = 1
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"

	// Token types carried in the token_type claim
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
