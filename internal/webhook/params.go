package webhook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MihaKr/ljubljana-transit/internal/directions"
	"github.com/MihaKr/ljubljana-transit/internal/models"
	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
)

// Parameter names used by the agent
const (
	ParamOrigin         = "origin"
	ParamDestination    = "destination"
	ParamTimePreference = "time_preference"
	ParamDateTime       = "date_time"
	ParamWalking        = "walking"
	ParamTransfers      = "boolean"
	ParamTransfersAlt   = "transfers"
)

// NoArrivalTime replaces a time_preference that carries no usable instant.
// It never parses as a timestamp.
const NoArrivalTime = "No arrival time set"

// RouteParams are the route parameters of an initial query or a stored context
type RouteParams struct {
	Origin      string
	Destination string
	ArrivalTime string
}

// Query builds the route query for the given preference
func (p RouteParams) Query(pref models.Preference) models.RouteQuery {
	return models.RouteQuery{
		Origin:         p.Origin,
		Destination:    p.Destination,
		ArrivalTimeISO: p.ArrivalTime,
		Preference:     pref,
	}
}

// ParseRouteParams extracts origin, destination and arrival time from a
// parameter bag. A missing time_preference defaults to now.
func ParseRouteParams(params map[string]any, now time.Time) (RouteParams, error) {
	origin, err := stringParam(params, ParamOrigin)
	if err != nil {
		return RouteParams{}, routeerr.Wrap(routeerr.InvalidOrigin, "origin has an unexpected shape", err)
	}
	destination, err := stringParam(params, ParamDestination)
	if err != nil {
		return RouteParams{}, routeerr.Wrap(routeerr.InvalidDestination, "destination has an unexpected shape", err)
	}

	return RouteParams{
		Origin:      origin,
		Destination: destination,
		ArrivalTime: arrivalTime(params, now),
	}, nil
}

func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q is %T, not a string", key, v)
	}
	return s, nil
}

func arrivalTime(params map[string]any, now time.Time) string {
	v, ok := params[ParamTimePreference]
	if !ok || v == nil {
		return directions.NowISO(now)
	}

	switch tp := v.(type) {
	case string:
		if tp == "" {
			return directions.NowISO(now)
		}
		return tp
	case map[string]any:
		if dt, ok := tp[ParamDateTime].(string); ok && dt != "" {
			return dt
		}
	}
	return NoArrivalTime
}

// ParseFlag reads the first present boolean flag among keys.
// present is false when none of the keys carries a value.
func ParseFlag(params map[string]any, keys ...string) (value, present bool, err error) {
	for _, key := range keys {
		v, ok := params[key]
		if !ok || v == nil {
			continue
		}
		switch f := v.(type) {
		case bool:
			return f, true, nil
		case string:
			if strings.TrimSpace(f) == "" {
				continue
			}
			b, perr := strconv.ParseBool(strings.TrimSpace(f))
			if perr != nil {
				return false, false, routeerr.Wrap(routeerr.InvalidParameters, "flag "+key+" is not a boolean", perr)
			}
			return b, true, nil
		default:
			return false, false, routeerr.New(routeerr.InvalidParameters, fmt.Sprintf("flag %s is %T, not a boolean", key, v))
		}
	}
	return false, false, nil
}
