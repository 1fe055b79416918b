package tool

import (
	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateShortID returns the first 8 hex chars of a random UUID, used for
// batch ids that show up in log lines.
func GenerateShortID() string {
	return GenerateRandomUUID()[:8]
}
