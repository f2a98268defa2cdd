package itinerary

import (
	"fmt"
	"strings"

	"github.com/MihaKr/ljubljana-transit/internal/models"
)

const segmentFormat = `Bus %s towards %s:
        - Walk to stop: %s
        - Departure: %s at %s
        - Arrival: %s at %s
        - Walk from stop: %s
        - Duration: %s (%d stops)`

// RenderSegment formats one bus ride
func RenderSegment(seg models.BusSegment) string {
	return fmt.Sprintf(segmentFormat,
		seg.BusNumber, seg.Headsign,
		seg.WalkToStop,
		seg.DepartureStop, seg.DepartureTime,
		seg.ArrivalStop, seg.ArrivalTime,
		seg.WalkFromStop,
		seg.Duration, seg.NumStops,
	)
}

// Render formats itineraries as numbered route options separated by a
// double blank line.
func Render(itineraries []models.Itinerary) string {
	blocks := make([]string, 0, len(itineraries))
	for i, it := range itineraries {
		segments := make([]string, len(it))
		for j, seg := range it {
			segments[j] = RenderSegment(seg)
		}
		blocks = append(blocks, fmt.Sprintf("Route Option %d:\n%s", i+1, strings.Join(segments, "\n")))
	}
	return strings.Join(blocks, "\n\n\n")
}
