package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MihaKr/ljubljana-transit/internal/config"
	"github.com/MihaKr/ljubljana-transit/internal/directions"
	"github.com/MihaKr/ljubljana-transit/internal/models"
	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
	"github.com/MihaKr/ljubljana-transit/internal/webhook"
)

const testWebhookPath = "/api/dialogflow/webhook"

// stubFetcher returns canned itineraries and remembers the last query
type stubFetcher struct {
	raws []directions.RawItinerary
	err  error
	last models.RouteQuery
}

func (f *stubFetcher) FetchBusItineraries(ctx context.Context, q models.RouteQuery) ([]directions.RawItinerary, error) {
	f.last = q
	if err := directions.ValidateQuery(q); err != nil {
		return nil, err
	}
	return f.raws, f.err
}

func transitStep(line, headsign string) directions.Step {
	return directions.Step{
		TravelMode: directions.ModeTransit,
		Duration:   directions.TextValue{Text: "12 mins"},
		TransitDetails: &directions.TransitDetails{
			DepartureStop: directions.TransitStop{Name: "Konzorcij"},
			ArrivalStop:   directions.TransitStop{Name: "Stadion"},
			DepartureTime: directions.TimeValue{Text: "8:30 AM"},
			ArrivalTime:   directions.TimeValue{Text: "8:42 AM"},
			Headsign:      headsign,
			Line:          directions.Line{ShortName: line},
			NumStops:      5,
		},
	}
}

func walkingStep(text string) directions.Step {
	return directions.Step{TravelMode: directions.ModeWalking, Duration: directions.TextValue{Text: text}}
}

func testRaws() []directions.RawItinerary {
	return []directions.RawItinerary{
		{Steps: []directions.Step{walkingStep("4 mins"), transitStep("6", "Dolgi most"), walkingStep("3 mins")}},
		{Steps: []directions.Step{transitStep("1", "Mestni log"), transitStep("12", "Vizmarje")}},
	}
}

func newTestServer(f webhook.Fetcher) *Server {
	return NewServer(config.ServerConfig{
		Port:           8080,
		WebhookPath:    testWebhookPath,
		AllowedOrigins: []string{"*"},
	}, f)
}

func postWebhook(t *testing.T, server *Server, body string) (*httptest.ResponseRecorder, webhook.Response) {
	t.Helper()

	req, err := http.NewRequest("POST", testWebhookPath, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	var response webhook.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("error parsing response: %v (%s)", err, rr.Body.String())
	}
	return rr, response
}

func replyText(t *testing.T, response webhook.Response) string {
	t.Helper()
	if len(response.FulfillmentMessages) != 1 || len(response.FulfillmentMessages[0].Text.Text) != 1 {
		t.Fatalf("unexpected reply shape: %+v", response)
	}
	return response.FulfillmentMessages[0].Text.Text[0]
}

// TestIndexEndpoint tests the index endpoint
func TestIndexEndpoint(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	req, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	contentType := rr.Header().Get("Content-Type")
	if contentType != "application/vnd.api+json" {
		t.Errorf("handler returned wrong content type: got %v want %v", contentType, "application/vnd.api+json")
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Errorf("error parsing response: %v", err)
	}

	for _, link := range []string{"webhook", "itineraries", "health"} {
		if _, ok := response.Links[link]; !ok {
			t.Errorf("missing link: %s", link)
		}
	}
	if response.Links["webhook"] != testWebhookPath {
		t.Errorf("webhook link: got %s want %s", response.Links["webhook"], testWebhookPath)
	}
}

// TestHealthEndpoint tests the health endpoint and request id propagation
func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Request-ID", "abc-123")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", body)
	}
	if id := rr.Header().Get("X-Request-ID"); id != "abc-123" {
		t.Errorf("request id not echoed: got %q", id)
	}
}

// TestRequestIDGenerated tests that a request without an id gets one
func TestRequestIDGenerated(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if id := rr.Header().Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("expected a generated uuid, got %q", id)
	}
}

// TestCORSPreflight tests that preflight requests for the webhook succeed
func TestCORSPreflight(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	req, err := http.NewRequest("OPTIONS", testWebhookPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://console.dialogflow.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("unexpected allow origin: %q", got)
	}
}

// TestWebhookGetRoute tests a successful route request
func TestWebhookGetRoute(t *testing.T) {
	fetcher := &stubFetcher{raws: testRaws()}
	server := newTestServer(fetcher)

	body := `{
		"queryResult": {
			"queryText": "how do I get to Stadion",
			"intent": {"displayName": "GET_route"},
			"parameters": {
				"origin": "Konzorcij",
				"destination": "Stadion",
				"time_preference": {"date_time": "2024-11-20T09:00:00+01:00"}
			}
		}
	}`

	rr, response := postWebhook(t, server, body)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if contentType := rr.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("handler returned wrong content type: got %v", contentType)
	}

	text := replyText(t, response)
	if !strings.HasPrefix(text, "I found the following bus routes to Stadion:") {
		t.Errorf("unexpected reply: %q", text)
	}
	if !strings.Contains(text, "Route Option 2:") {
		t.Errorf("expected two route options: %q", text)
	}
	if fetcher.last.ArrivalTimeISO != "2024-11-20T09:00:00+01:00" {
		t.Errorf("unexpected arrival time: %s", fetcher.last.ArrivalTimeISO)
	}
}

// TestWebhookInvalidOrigin tests the validation error reply
func TestWebhookInvalidOrigin(t *testing.T) {
	server := newTestServer(&stubFetcher{raws: testRaws()})

	body := `{"queryResult": {"intent": {"displayName": "GET_route"}, "parameters": {"origin": "", "destination": "Downtown"}}}`
	rr, response := postWebhook(t, server, body)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
	if text := replyText(t, response); text != "Please provide a valid origin." {
		t.Errorf("unexpected reply: %q", text)
	}
}

// TestWebhookTimeout tests that a provider timeout maps to 504
func TestWebhookTimeout(t *testing.T) {
	server := newTestServer(&stubFetcher{err: routeerr.New(routeerr.Timeout, "request timeout")})

	body := `{"queryResult": {"intent": {"displayName": "GET_route"}, "parameters": {"origin": "A", "destination": "B"}}}`
	rr, response := postWebhook(t, server, body)

	if rr.Code != http.StatusGatewayTimeout {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusGatewayTimeout)
	}
	if text := replyText(t, response); text != "Request timed out. Please try again." {
		t.Errorf("unexpected reply: %q", text)
	}
}

// TestWebhookAdjustWithContext tests a refinement recovered from the route context
func TestWebhookAdjustWithContext(t *testing.T) {
	fetcher := &stubFetcher{raws: testRaws()}
	server := newTestServer(fetcher)

	body := `{
		"queryResult": {
			"intent": {"displayName": "adjust_for_transfers"},
			"parameters": {"boolean": false},
			"outputContexts": [{
				"name": "projects/ljubljana/agent/sessions/42/contexts/route_requested",
				"lifespanCount": 5,
				"parameters": {"origin": "Konzorcij", "destination": "Stadion", "time_preference": "2024-11-20T09:00:00+01:00"}
			}]
		}
	}`

	rr, response := postWebhook(t, server, body)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if fetcher.last.Preference != models.PreferenceFewerTransfers {
		t.Errorf("expected fewer transfers preference, got %s", fetcher.last.Preference)
	}
	if text := replyText(t, response); !strings.HasPrefix(text, "I've adjusted the route to minimize transfers:") {
		t.Errorf("unexpected reply: %q", text)
	}
}

// TestWebhookAdjustWithoutContext tests the missing context reply
func TestWebhookAdjustWithoutContext(t *testing.T) {
	server := newTestServer(&stubFetcher{raws: testRaws()})

	body := `{"queryResult": {"intent": {"displayName": "adjust-for-walking"}, "parameters": {}}}`
	rr, _ := postWebhook(t, server, body)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

// TestWebhookUnknownIntent tests the fallback reply
func TestWebhookUnknownIntent(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	rr, response := postWebhook(t, server, `{"queryResult": {"intent": {"displayName": "Default Welcome Intent"}}}`)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if text := replyText(t, response); text != webhook.FallbackText("Default Welcome Intent") {
		t.Errorf("unexpected reply: %q", text)
	}
}

// TestWebhookMalformedBody tests that undecodable JSON yields the generic reply
func TestWebhookMalformedBody(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	rr, response := postWebhook(t, server, `{"queryResult": `)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusInternalServerError)
	}
	if text := replyText(t, response); text != routeerr.Unknown.Message() {
		t.Errorf("unexpected reply: %q", text)
	}
}

// TestWebhookMethodNotAllowed tests that GET on the webhook path is rejected
func TestWebhookMethodNotAllowed(t *testing.T) {
	server := newTestServer(&stubFetcher{})

	req, err := http.NewRequest("GET", testWebhookPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusMethodNotAllowed)
	}
}

// TestItinerariesEndpoint tests the itineraries collection endpoint
func TestItinerariesEndpoint(t *testing.T) {
	fetcher := &stubFetcher{raws: testRaws()}
	server := newTestServer(fetcher)

	req, err := http.NewRequest("GET", "/itineraries?origin=Konzorcij&destination=Stadion&arrival=2024-11-20T09:00:00%2B01:00&preference=less_walking", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if contentType := rr.Header().Get("Content-Type"); contentType != "application/vnd.api+json" {
		t.Errorf("handler returned wrong content type: got %v", contentType)
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("error parsing response: %v", err)
	}

	data, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("response data is not an array")
	}
	if len(data) != 2 {
		t.Errorf("unexpected number of itineraries: got %d want 2", len(data))
	}

	itinerary := data[0].(map[string]interface{})
	if itinerary["type"] != "itinerary" || itinerary["id"] != "1" {
		t.Errorf("unexpected resource identity: %v %v", itinerary["type"], itinerary["id"])
	}

	text, _ := response.Meta["text"].(string)
	if !strings.HasPrefix(text, "Route Option 1:\nBus 6 towards Dolgi most:") {
		t.Errorf("unexpected meta text: %q", text)
	}
	if response.Meta["preference"] != "less_walking" {
		t.Errorf("unexpected preference: %v", response.Meta["preference"])
	}
	if fetcher.last.Preference != models.PreferenceLessWalking {
		t.Errorf("preference not forwarded: %s", fetcher.last.Preference)
	}
	if len(response.Included) != 0 {
		t.Errorf("segments should not be included unless requested")
	}
}

// TestItinerariesLineFilter tests filter[line] and include=segments
func TestItinerariesLineFilter(t *testing.T) {
	server := newTestServer(&stubFetcher{raws: testRaws()})

	req, err := http.NewRequest("GET", "/itineraries?origin=A&destination=B&filter[line]=12,99&include=segments", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var response Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("error parsing response: %v", err)
	}

	data, ok := response.Data.([]interface{})
	if !ok || len(data) != 1 {
		t.Fatalf("expected one itinerary using line 12, got %v", response.Data)
	}
	if len(response.Included) != 2 {
		t.Errorf("expected two included segments, got %d", len(response.Included))
	}
	if response.Included[0].ID != "1-1" || response.Included[0].Type != "segment" {
		t.Errorf("unexpected included resource: %+v", response.Included[0])
	}
}

// TestItinerariesErrors tests the JSON:API error document
func TestItinerariesErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		fetcher *stubFetcher
		status  int
		code    string
	}{
		{"missing destination", "/itineraries?origin=A", &stubFetcher{}, http.StatusBadRequest, "INVALID_DESTINATION"},
		{"bad preference", "/itineraries?origin=A&destination=B&preference=fastest", &stubFetcher{}, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"no routes", "/itineraries?origin=A&destination=B", &stubFetcher{err: routeerr.New(routeerr.NoRoutes, "no routes found")}, http.StatusBadRequest, "NO_ROUTES"},
		{"auth", "/itineraries?origin=A&destination=B", &stubFetcher{err: routeerr.New(routeerr.AuthError, "denied")}, http.StatusForbidden, "AUTH_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(tt.fetcher)

			req, err := http.NewRequest("GET", tt.url, nil)
			if err != nil {
				t.Fatal(err)
			}
			rr := httptest.NewRecorder()
			server.Router().ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.status)
			}

			var response ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("error parsing response: %v", err)
			}
			if len(response.Errors) != 1 || response.Errors[0].Code != tt.code {
				t.Errorf("unexpected errors: %+v", response.Errors)
			}
		})
	}
}

// TestRecoveryMiddleware tests that a panicking handler yields the generic reply
func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("POST", testWebhookPath, bytes.NewReader(nil))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rr.Body.String(), routeerr.Unknown.Message()) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

// TestRecoveryMiddlewareAfterWrite tests that a panic after the response
// started leaves the written response untouched
func TestRecoveryMiddlewareAfterWrite(t *testing.T) {
	handler := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("partial"))
		panic("boom")
	}))

	req := httptest.NewRequest("POST", testWebhookPath, bytes.NewReader(nil))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusAccepted)
	}
	if body := rr.Body.String(); body != "partial" {
		t.Errorf("unexpected body: %q", body)
	}
	if contentType := rr.Header().Get("Content-Type"); contentType == "application/json" {
		t.Errorf("recovery reply must not be appended after the response started")
	}
}
