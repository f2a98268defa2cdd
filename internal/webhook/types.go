// Package webhook implements the fulfillment side of the conversational
// agent: it decodes intent requests, runs the route pipeline, and builds the
// text reply spoken back to the user.
package webhook

// Request is the fulfillment request sent by the conversational platform
type Request struct {
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the matched intent and its parameters
type QueryResult struct {
	QueryText      string         `json:"queryText,omitempty"`
	Intent         Intent         `json:"intent"`
	Parameters     map[string]any `json:"parameters"`
	OutputContexts []RawContext   `json:"outputContexts"`
}

// Intent identifies the matched intent
type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// RawContext is a context as it appears on the wire
type RawContext struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// Response is the fulfillment reply
type Response struct {
	FulfillmentMessages []Message `json:"fulfillmentMessages"`
}

// Message is one reply message
type Message struct {
	Text Text `json:"text"`
}

// Text holds the reply sentences
type Text struct {
	Text []string `json:"text"`
}

// NewResponse wraps a single sentence in the fulfillment reply shape
func NewResponse(text string) Response {
	return Response{
		FulfillmentMessages: []Message{{Text: Text{Text: []string{text}}}},
	}
}
