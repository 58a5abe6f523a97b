package engine

import "github.com/google/uuid"

// generateID creates a short random ID for playback sessions.
func generateID() string {
	return uuid.NewString()[:8]
}
