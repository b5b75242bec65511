package config

func GetPort() string {
	return GetEnvOrDefault("PORT", "3000")
}

// GetUpstreamURL is the answering service the /next prefix is rewritten to.
// Empty disables the rewrite.
func GetUpstreamURL() string {
	return GetEnvOrDefault("UPSTREAM_URL", "")
}
