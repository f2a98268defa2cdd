package directions

// Travel modes reported on a step
const (
	ModeWalking = "WALKING"
	ModeTransit = "TRANSIT"
)

// Provider status values
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusRequestDenied  = "REQUEST_DENIED"
)

// Response is the body returned by the directions endpoint
type Response struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Routes       []Route `json:"routes"`
}

// Route is one itinerary alternative
type Route struct {
	Summary string `json:"summary,omitempty"`
	Legs    []Leg  `json:"legs"`
}

// Leg is the origin-to-destination part of a route; transit routes have one
type Leg struct {
	Duration TextValue `json:"duration"`
	Steps    []Step    `json:"steps"`
}

// Step is a single walking or transit movement
type Step struct {
	TravelMode       string          `json:"travel_mode"`
	Duration         TextValue       `json:"duration"`
	HTMLInstructions string          `json:"html_instructions,omitempty"`
	TransitDetails   *TransitDetails `json:"transit_details,omitempty"`
}

// TextValue pairs a display text with its numeric value
type TextValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

// TimeValue is a provider timestamp with its display text
type TimeValue struct {
	Text     string `json:"text"`
	TimeZone string `json:"time_zone"`
	Value    int64  `json:"value"`
}

// LatLng is a coordinate pair
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TransitStop is a boarding or alighting stop
type TransitStop struct {
	Name     string `json:"name"`
	Location LatLng `json:"location"`
}

// Agency operates a transit line
type Agency struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Vehicle describes the vehicle serving a line
type Vehicle struct {
	Icon string `json:"icon,omitempty"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Line identifies the transit line of a step
type Line struct {
	Agencies  []Agency `json:"agencies,omitempty"`
	Name      string   `json:"name,omitempty"`
	ShortName string   `json:"short_name,omitempty"`
	Vehicle   Vehicle  `json:"vehicle"`
}

// TransitDetails is present on transit steps only
type TransitDetails struct {
	ArrivalStop   TransitStop `json:"arrival_stop"`
	DepartureStop TransitStop `json:"departure_stop"`
	ArrivalTime   TimeValue   `json:"arrival_time"`
	DepartureTime TimeValue   `json:"departure_time"`
	Headsign      string      `json:"headsign"`
	Line          Line        `json:"line"`
	NumStops      int         `json:"num_stops"`
}

// RawItinerary is the step sequence of one provider route
type RawItinerary struct {
	Steps []Step
}

// IsPureWalking reports whether the step is a walk with no transit detail
func (s Step) IsPureWalking() bool {
	return s.TravelMode == ModeWalking && s.TransitDetails == nil
}

// IsTransit reports whether the step rides a transit vehicle
func (s Step) IsTransit() bool {
	return s.TravelMode == ModeTransit
}
