package directions

import (
	"strings"
	"time"

	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
)

// ArrivalEpoch converts an ISO-8601 timestamp with timezone into epoch
// seconds, truncating any fractional part.
func ArrivalEpoch(iso string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(iso))
	if err != nil {
		return 0, routeerr.Wrap(routeerr.InvalidTime, "invalid ISO 8601 string with time zone", err)
	}
	return t.Unix(), nil
}

// NowISO formats the current instant for use as a default arrival time
func NowISO(now time.Time) string {
	return now.Format(time.RFC3339)
}
