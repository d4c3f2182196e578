package booking

import (
	"math"
	"time"
)

// DefaultGuestCancelReason is stored when a guest cancels without a reason.
const DefaultGuestCancelReason = "Guest cancelled"

// DaysUntilCheckIn returns ceil((checkIn - now) / 24h) in UTC. The value is
// negative once check-in has passed. It is informational only and never
// restricts cancellation.
func DaysUntilCheckIn(checkIn, now time.Time) int {
	diff := checkIn.UTC().Sub(now.UTC())
	return int(math.Ceil(diff.Hours() / 24))
}
