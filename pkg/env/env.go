package env

import (
	"os"
	"strings"
)

const prefix = "PDFLEX_"

// Get returns the prefixed variable, then the bare one, then fallback.
// LOG_FORMAT is read as PDFLEX_LOG_FORMAT first so the service can share a
// host environment with other processes.
func Get(key, fallback string) string {
	if !strings.HasPrefix(key, prefix) {
		if val := os.Getenv(prefix + key); val != "" {
			return val
		}
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
