// Package instance names the running process for logs.
package instance

import "github.com/angelmondragon/gigboard-backend/pkg/env"

// ID prefers GIGBOARD_INSTANCE_ID, then the platform dyno name.
func ID(fallback string) string {
	if id, ok := env.First("GIGBOARD_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	return fallback
}
