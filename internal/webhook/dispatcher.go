package webhook

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/MihaKr/ljubljana-transit/internal/directions"
	"github.com/MihaKr/ljubljana-transit/internal/itinerary"
	"github.com/MihaKr/ljubljana-transit/internal/models"
	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
)

// Intent display names handled by the dispatcher
const (
	IntentGetRoute           = "GET_route"
	IntentAdjustForWalking   = "adjust-for-walking"
	IntentAdjustForTransfers = "adjust_for_transfers"
)

const unknownIntentPlaceholder = "unknown intent"

// Fetcher retrieves raw bus itineraries for a query
type Fetcher interface {
	FetchBusItineraries(ctx context.Context, q models.RouteQuery) ([]directions.RawItinerary, error)
}

// Reply is the outcome of one dispatch. Kind and Err are set on failure.
type Reply struct {
	Status int
	Text   string
	Kind   routeerr.Kind
	Err    error
}

// Dispatcher selects behaviour by intent name and assembles the reply
type Dispatcher struct {
	fetcher Fetcher
	now     func() time.Time
}

// NewDispatcher creates a dispatcher backed by fetcher
func NewDispatcher(fetcher Fetcher) *Dispatcher {
	return &Dispatcher{fetcher: fetcher, now: time.Now}
}

// Dispatch handles one webhook request. It always returns a reply; failures
// are mapped to the sentence and status of their kind.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) Reply {
	intent := req.QueryResult.Intent.DisplayName

	var (
		text string
		err  error
	)
	switch intent {
	case IntentGetRoute:
		text, err = d.handleGetRoute(ctx, req)
	case IntentAdjustForWalking:
		text, err = d.handleAdjustForWalking(ctx, req)
	case IntentAdjustForTransfers:
		text, err = d.handleAdjustForTransfers(ctx, req)
	}

	if err != nil {
		return ErrorReply(err)
	}
	if text == "" {
		return Reply{Status: http.StatusOK, Text: FallbackText(intent)}
	}
	return Reply{Status: http.StatusOK, Text: text}
}

// ErrorReply maps err to its user sentence and HTTP status
func ErrorReply(err error) Reply {
	kind := routeerr.KindOf(err)
	return Reply{Status: kind.Status(), Text: kind.Message(), Kind: kind, Err: err}
}

// FallbackText is the reply for unrecognised intents and empty results
func FallbackText(intent string) string {
	if intent == "" {
		intent = unknownIntentPlaceholder
	}
	return fmt.Sprintf("I received your request but I'm not sure how to help with \"%s\". Could you please rephrase your question?", intent)
}

func (d *Dispatcher) handleGetRoute(ctx context.Context, req *Request) (string, error) {
	params, err := ParseRouteParams(req.QueryResult.Parameters, d.now())
	if err != nil {
		return "", err
	}

	log.Printf("webhook: fetching routes to %q from %q arriving %s", params.Destination, params.Origin, params.ArrivalTime)

	details, err := d.plan(ctx, params.Query(models.PreferenceNone))
	if err != nil || details == "" {
		return "", err
	}
	return fmt.Sprintf("I found the following bus routes to %s:\n\n%s\n\nWould you like to walk less/more or more/less transfers?",
		params.Destination, details), nil
}

func (d *Dispatcher) handleAdjustForWalking(ctx context.Context, req *Request) (string, error) {
	params, err := d.routeContextParams(req)
	if err != nil {
		return "", err
	}

	walking, _, err := ParseFlag(req.QueryResult.Parameters, ParamWalking)
	if err != nil {
		return "", err
	}
	// an absent flag reads as false, so less walking is the default
	preferLessWalking := !walking

	pref := models.PreferenceNone
	phrase := "to allow more walking"
	if preferLessWalking {
		pref = models.PreferenceLessWalking
		phrase = "to minimize walking"
	}

	log.Printf("webhook: adjusting route with less walking: %t", preferLessWalking)

	details, err := d.plan(ctx, params.Query(pref))
	if err != nil || details == "" {
		return "", err
	}
	return adjustedText(phrase, details), nil
}

func (d *Dispatcher) handleAdjustForTransfers(ctx context.Context, req *Request) (string, error) {
	params, err := d.routeContextParams(req)
	if err != nil {
		return "", err
	}

	transfers, _, err := ParseFlag(req.QueryResult.Parameters, ParamTransfers, ParamTransfersAlt)
	if err != nil {
		return "", err
	}
	preferFewerTransfers := !transfers

	pref := models.PreferenceNone
	phrase := "to allow more transfers"
	if preferFewerTransfers {
		pref = models.PreferenceFewerTransfers
		phrase = "to minimize transfers"
	}

	log.Printf("webhook: adjusting route with fewer transfers: %t", preferFewerTransfers)

	details, err := d.plan(ctx, params.Query(pref))
	if err != nil || details == "" {
		return "", err
	}
	return adjustedText(phrase, details), nil
}

func adjustedText(phrase, details string) string {
	return fmt.Sprintf("I've adjusted the route %s:\n\n%s\n\nIs this route better for you?", phrase, details)
}

// routeContextParams recovers the initial query from the route_requested context
func (d *Dispatcher) routeContextParams(req *Request) (RouteParams, error) {
	rc, ok := ParseContexts(req.QueryResult.OutputContexts).Find(ContextRouteRequested)
	if !ok || len(rc.Parameters) == 0 {
		return RouteParams{}, routeerr.New(routeerr.NoRouteContext, "no active route to adjust")
	}
	return ParseRouteParams(rc.Parameters, d.now())
}

// plan runs fetch, reduce and render. An empty string means no usable route.
func (d *Dispatcher) plan(ctx context.Context, q models.RouteQuery) (string, error) {
	raws, err := d.fetcher.FetchBusItineraries(ctx, q)
	if err != nil {
		return "", err
	}
	its := itinerary.ReduceAll(raws)
	log.Printf("webhook: %d of %d itineraries usable", len(its), len(raws))
	if len(its) == 0 {
		return "", nil
	}
	return itinerary.Render(its), nil
}
