// Package dialogflow holds the fulfillment webhook wire types.
package dialogflow

// WebhookRequest is the body Dialogflow POSTs to the fulfillment
// endpoint. Every field is optional; absence means defaults downstream.
type WebhookRequest struct {
	QueryResult *QueryResult `json:"queryResult,omitempty"`
}

type QueryResult struct {
	Intent     *Intent        `json:"intent,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type Intent struct {
	DisplayName string `json:"displayName,omitempty"`
}

// WebhookResponse carries the natural-language reply back to the
// platform. The status is always 200; outcomes live in the text.
type WebhookResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}

// IntentDisplayName returns the raw intent name, or "" when any layer
// of the envelope is missing.
func (r *WebhookRequest) IntentDisplayName() string {
	if r.QueryResult == nil || r.QueryResult.Intent == nil {
		return ""
	}
	return r.QueryResult.Intent.DisplayName
}

// Params returns the parameter bag, never nil.
func (r *WebhookRequest) Params() map[string]any {
	if r.QueryResult == nil || r.QueryResult.Parameters == nil {
		return map[string]any{}
	}
	return r.QueryResult.Parameters
}
