package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MihaKr/ljubljana-transit/internal/config"
	"github.com/MihaKr/ljubljana-transit/internal/models"
	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
)

// DefaultTimeout bounds a single provider request
const DefaultTimeout = 5 * time.Second

// Client queries the directions provider for bus itineraries
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client from the directions configuration
func NewClient(cfg config.DirectionsConfig) *Client {
	timeout := DefaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// FetchBusItineraries validates the query, issues one provider request and
// returns the step sequence of every route alternative. It never retries.
func (c *Client) FetchBusItineraries(ctx context.Context, q models.RouteQuery) ([]RawItinerary, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}
	arrival, err := ArrivalEpoch(q.ArrivalTimeISO)
	if err != nil {
		return nil, err
	}

	reqURL, err := c.buildURL(q, arrival)
	if err != nil {
		return nil, routeerr.Wrap(routeerr.Internal, "building directions URL", err)
	}

	log.Printf("directions: %q -> %q arriving %d (preference %s)", q.Origin, q.Destination, arrival, q.Preference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, routeerr.Wrap(routeerr.Internal, "creating directions request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, routeerr.New(routeerr.AuthError, fmt.Sprintf("directions API rejected credentials: status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, routeerr.New(routeerr.Internal, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	var dirResp Response
	if err := json.Unmarshal(body, &dirResp); err != nil {
		return nil, routeerr.Wrap(routeerr.InvalidResponse, "failed to decode directions JSON", err)
	}

	return parseResponse(&dirResp)
}

func (c *Client) buildURL(q models.RouteQuery, arrival int64) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("mode", "transit")
	params.Set("transit_mode", "bus")
	params.Set("arrival_time", strconv.FormatInt(arrival, 10))
	if pref := q.Preference.ParamValue(); pref != "" {
		params.Set("transit_routing_preference", pref)
	}
	params.Set("alternatives", "true")
	params.Set("key", c.apiKey)
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func parseResponse(resp *Response) ([]RawItinerary, error) {
	switch resp.Status {
	case StatusOK:
	case StatusZeroResults:
		return nil, routeerr.New(routeerr.NoRoutes, "no routes found")
	case StatusInvalidRequest:
		return nil, routeerr.New(routeerr.InvalidRequest, "invalid route request")
	case StatusRequestDenied:
		return nil, routeerr.New(routeerr.AuthError, "API key invalid: "+resp.ErrorMessage)
	case "":
		return nil, routeerr.New(routeerr.InvalidResponse, "directions response has no status")
	default:
		return nil, routeerr.New(routeerr.Internal, "directions status "+resp.Status)
	}

	if len(resp.Routes) == 0 {
		return nil, routeerr.New(routeerr.InvalidResponse, "invalid route data received")
	}

	itineraries := make([]RawItinerary, 0, len(resp.Routes))
	for i, route := range resp.Routes {
		if len(route.Legs) == 0 || route.Legs[0].Steps == nil {
			return nil, routeerr.New(routeerr.InvalidResponse, fmt.Sprintf("route %d has no steps", i))
		}
		itineraries = append(itineraries, RawItinerary{Steps: route.Legs[0].Steps})
	}
	return itineraries, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return routeerr.Wrap(routeerr.Timeout, "request timeout", err)
	}
	return routeerr.Wrap(routeerr.Internal, "failed to fetch bus routes", err)
}
