package lockmgr

import (
	"time"

	"github.com/google/uuid"
)

// generateOwnerID creates a new unique owner ID (a random UUID)
func generateOwnerID() []byte {
	id := uuid.New()
	return id[:]
}

// nextBackoff doubles d and caps it at maxBackoff
func nextBackoff(d, maxBackoff time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
