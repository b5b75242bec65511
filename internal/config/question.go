package config

import (
	"strings"
	"time"
)

const DefaultQuestionBaseURL = "http://localhost:3000/next"

// GetQuestionBaseURL returns the prefix the relay appends /api/question to.
// It has to match whatever prefix the upstream proxy rewrites.
func GetQuestionBaseURL() string {
	return strings.TrimRight(GetEnvOrDefault("QUESTION_BASE_URL", DefaultQuestionBaseURL), "/")
}

// GetQuestionTimeout returns zero unless QUESTION_TIMEOUT is set, meaning the
// relay waits for the network to give up on its own.
func GetQuestionTimeout() time.Duration {
	return parseEnvDuration("QUESTION_TIMEOUT", 0)
}
