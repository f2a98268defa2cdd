package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/MihaKr/ljubljana-transit/internal/directions"
	"github.com/MihaKr/ljubljana-transit/internal/filter"
	"github.com/MihaKr/ljubljana-transit/internal/itinerary"
	"github.com/MihaKr/ljubljana-transit/internal/models"
	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
)

// handleItineraries plans bus itineraries from query parameters
func (s *Server) handleItineraries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	options := filter.NewOptions(query)

	pref, ok := models.ParsePreference(query.Get("preference"))
	if !ok {
		s.sendRouteError(w, routeerr.New(routeerr.InvalidParameters, "unknown preference "+query.Get("preference")))
		return
	}

	arrival := query.Get("arrival")
	if arrival == "" {
		arrival = directions.NowISO(time.Now())
	}

	q := models.RouteQuery{
		Origin:         query.Get("origin"),
		Destination:    query.Get("destination"),
		ArrivalTimeISO: arrival,
		Preference:     pref,
	}

	raws, err := s.fetcher.FetchBusItineraries(r.Context(), q)
	if err != nil {
		log.Printf("[%s] itineraries: %v", RequestID(r.Context()), err)
		s.sendRouteError(w, err)
		return
	}

	its := itinerary.ReduceAll(raws)

	if options.HasFilter("line") {
		lines := options.GetFilter("line")
		its = filter.Filter(its, func(it models.Itinerary) bool {
			for _, line := range lines {
				if it.UsesLine(line) {
					return true
				}
			}
			return false
		})
	}

	resources := make([]Resource, len(its))
	var included []Resource
	for i, it := range its {
		resources[i] = itineraryToResource(i+1, it)
		if options.HasInclude("segments") {
			included = append(included, segmentResources(i+1, it)...)
		}
	}

	response := Response{
		Data:     resources,
		Included: included,
		Links: map[string]string{
			"self": "/itineraries",
		},
		Meta: map[string]interface{}{
			"count":      len(its),
			"preference": pref.String(),
			"text":       itinerary.Render(its),
		},
	}

	s.sendResponse(w, response)
}

func itineraryToResource(n int, it models.Itinerary) Resource {
	busNumbers := make([]string, len(it))
	identifiers := make([]ResourceIdentifier, len(it))
	for i, seg := range it {
		busNumbers[i] = seg.BusNumber
		identifiers[i] = ResourceIdentifier{Type: "segment", ID: segmentID(n, i+1)}
	}

	return Resource{
		Type: "itinerary",
		ID:   strconv.Itoa(n),
		Attributes: map[string]interface{}{
			"segments":    it,
			"bus_numbers": busNumbers,
			"transfers":   len(it) - 1,
		},
		Relationships: map[string]Relationship{
			"segments": {
				Data: identifiers,
			},
		},
	}
}

func segmentResources(n int, it models.Itinerary) []Resource {
	out := make([]Resource, len(it))
	for i, seg := range it {
		out[i] = Resource{
			Type: "segment",
			ID:   segmentID(n, i+1),
			Attributes: map[string]interface{}{
				"bus_number":     seg.BusNumber,
				"headsign":       seg.Headsign,
				"departure_stop": seg.DepartureStop,
				"departure_time": seg.DepartureTime,
				"arrival_stop":   seg.ArrivalStop,
				"arrival_time":   seg.ArrivalTime,
				"duration":       seg.Duration,
				"num_stops":      seg.NumStops,
				"walk_to_stop":   seg.WalkToStop,
				"walk_from_stop": seg.WalkFromStop,
				"text":           itinerary.RenderSegment(seg),
			},
		}
	}
	return out
}

func segmentID(it, seg int) string {
	return fmt.Sprintf("%d-%d", it, seg)
}
