package models

// Preference is the routing bias requested from the directions provider
type Preference int

const (
	PreferenceNone Preference = iota
	PreferenceFewerTransfers
	PreferenceLessWalking
)

// ParamValue returns the provider's transit_routing_preference value.
// PreferenceNone has no value and sends no hint.
func (p Preference) ParamValue() string {
	switch p {
	case PreferenceFewerTransfers:
		return "fewer_transfers"
	case PreferenceLessWalking:
		return "less_walking"
	default:
		return ""
	}
}

func (p Preference) String() string {
	if v := p.ParamValue(); v != "" {
		return v
	}
	return "none"
}

// ParsePreference maps "fewer_transfers", "less_walking", "none" or "" to a Preference
func ParsePreference(s string) (Preference, bool) {
	switch s {
	case "", "none":
		return PreferenceNone, true
	case "fewer_transfers":
		return PreferenceFewerTransfers, true
	case "less_walking":
		return PreferenceLessWalking, true
	}
	return PreferenceNone, false
}

// RouteQuery is one request for bus itineraries
type RouteQuery struct {
	Origin         string `validate:"notblank"`
	Destination    string `validate:"notblank"`
	ArrivalTimeISO string
	Preference     Preference
}

// StayAtStop is the walking connector of a segment that has no adjacent walk
const StayAtStop = "Stay at the same stop"

// BusSegment is one boardable bus ride within an itinerary
type BusSegment struct {
	BusNumber     string `json:"bus_number"`
	Headsign      string `json:"headsign"`
	DepartureStop string `json:"departure_stop"`
	DepartureTime string `json:"departure_time"`
	ArrivalStop   string `json:"arrival_stop"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`
	NumStops      int    `json:"num_stops"`
	WalkToStop    string `json:"walk_to_stop"`
	WalkFromStop  string `json:"walk_from_stop"`
}

// Itinerary is an ordered, non-empty sequence of bus segments
type Itinerary []BusSegment

// UsesLine reports whether any segment rides the given bus number
func (it Itinerary) UsesLine(busNumber string) bool {
	for _, seg := range it {
		if seg.BusNumber == busNumber {
			return true
		}
	}
	return false
}
