// Package itinerary turns provider routes into bus segments and renders them
// as text for the conversational reply.
package itinerary

import (
	"github.com/MihaKr/ljubljana-transit/internal/directions"
	"github.com/MihaKr/ljubljana-transit/internal/filter"
	"github.com/MihaKr/ljubljana-transit/internal/models"
)

// Reduce converts one raw itinerary into its bus segments.
// It returns nil when the itinerary has no usable transit step.
func Reduce(raw directions.RawItinerary) models.Itinerary {
	var walkTo, walkFrom *directions.Step
	for i := range raw.Steps {
		if raw.Steps[i].IsPureWalking() {
			walkTo = &raw.Steps[i]
			break
		}
	}
	for i := len(raw.Steps) - 1; i >= 0; i-- {
		if raw.Steps[i].IsPureWalking() {
			walkFrom = &raw.Steps[i]
			break
		}
	}

	transit := filter.Filter(raw.Steps, directions.Step.IsTransit)
	if len(transit) == 0 {
		return nil
	}

	segments := make(models.Itinerary, 0, len(transit))
	for i, step := range transit {
		// a transit step without details cannot be boarded
		if step.TransitDetails == nil {
			continue
		}
		d := step.TransitDetails

		seg := models.BusSegment{
			BusNumber:     busNumber(d.Line),
			Headsign:      d.Headsign,
			DepartureStop: d.DepartureStop.Name,
			DepartureTime: d.DepartureTime.Text,
			ArrivalStop:   d.ArrivalStop.Name,
			ArrivalTime:   d.ArrivalTime.Text,
			Duration:      step.Duration.Text,
			NumStops:      d.NumStops,
			WalkToStop:    models.StayAtStop,
			WalkFromStop:  models.StayAtStop,
		}
		if i == 0 && walkTo != nil && walkTo.Duration.Text != "" {
			seg.WalkToStop = walkTo.Duration.Text
		}
		if i == len(transit)-1 && walkFrom != nil && walkFrom.Duration.Text != "" {
			seg.WalkFromStop = walkFrom.Duration.Text
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil
	}
	return segments
}

// ReduceAll reduces every raw itinerary, dropping those with no bus segment.
// The result is empty when nothing usable remains.
func ReduceAll(raws []directions.RawItinerary) []models.Itinerary {
	out := make([]models.Itinerary, 0, len(raws))
	for _, raw := range raws {
		if it := Reduce(raw); it != nil {
			out = append(out, it)
		}
	}
	return out
}

func busNumber(line directions.Line) string {
	if line.ShortName != "" {
		return line.ShortName
	}
	return line.Name
}
