package catalog

import "github.com/google/uuid"

// randSuffix returns a short unique string for temp-file names, avoiding
// collisions between concurrent writers in the same process.
func randSuffix() string {
	return uuid.NewString()
}
