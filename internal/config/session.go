package config

import (
	"strconv"
	"time"

	"github.com/webvibe/supportdesk/pkg/logger"
)

var (
	// SessionCookieName is the name of the session cookie
	// Default to "webvibe_session" if not set in environment
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "webvibe_session")
)

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	return SessionCookieName
}

// SetSessionCookieName temporarily changes the session cookie name and returns a function to restore it
// This is primarily used for testing
func SetSessionCookieName(name string) func() {
	previous := SessionCookieName
	SessionCookieName = name

	return func() {
		SessionCookieName = previous
	}
}

// GetSessionLifetime controls both the cookie expiry and the store TTL.
func GetSessionLifetime() time.Duration {
	return parseEnvDuration("SESSION_LIFETIME", time.Hour)
}

// GetSessionCookieSecure defaults to true. Set SESSION_COOKIE_SECURE=false when
// serving plain HTTP to anything but localhost, or browsers drop the cookie.
func GetSessionCookieSecure() bool {
	val := GetEnvOrDefault("SESSION_COOKIE_SECURE", "true")
	secure, err := strconv.ParseBool(val)
	if err != nil {
		logger.Warn(logger.CONFIG, "Invalid value for SESSION_COOKIE_SECURE, using default: true")
		return true
	}
	return secure
}
