package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

// Token settings
const (
	ScopeTokenAccess = "access"

	AccessTokenTTL  = 7 * 24 * time.Hour
	TokenCookieName = "token"
)

// Request handling
const (
	DefaultRequestTimeout = 30 * time.Second
	RequestIDLength       = 12
)

// Database settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Login throttling
const (
	LoginMaxAttempts   = 5
	LoginAttemptWindow = 15 * time.Minute
)

// Cache key prefixes
const (
	CacheKeyTokenBlacklist = "auth:blacklist:"
	CacheKeyLoginAttempt   = "auth:login-attempts:"
)
