// Package env reads loose process variables that sit outside config.Config.
package env

import (
	"os"
	"strings"
)

// First returns the first of keys holding a non-blank value.
func First(keys ...string) (string, bool) {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val, true
		}
	}
	return "", false
}

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val, ok := First(key); ok {
		return val
	}
	return fallback
}
