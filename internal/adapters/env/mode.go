package env

import (
	"os"
	"strings"
)

// Lookup reads SEMKIT_* overrides from the process environment.
func Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// DetectDebug reports whether SEMKIT_DEBUG asks for debug logging and
// detailed error pages.
func DetectDebug() bool {
	return isTruthy(os.Getenv("SEMKIT_DEBUG"))
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
