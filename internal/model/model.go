package model

import "time"

// MessageVersion is the calling-convention version of every envelope.
const MessageVersion = "1.0"

// ContentTypeJSON keys the response body inside an envelope.
const ContentTypeJSON = "application/json"

// Parameter is one named path or query parameter of an invocation.
type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// AgentInfo identifies the agent that issued an invocation.
type AgentInfo struct {
	Name    string `json:"name,omitempty"`
	ID      string `json:"id,omitempty"`
	Alias   string `json:"alias,omitempty"`
	Version string `json:"version,omitempty"`
}

// Invocation is one action-group call from the orchestration platform.
// Only ActionGroup, APIPath, HTTPMethod and Parameters drive behaviour.
type Invocation struct {
	MessageVersion          string            `json:"messageVersion,omitempty"`
	ActionGroup             string            `json:"actionGroup"`
	APIPath                 string            `json:"apiPath"`
	HTTPMethod              string            `json:"httpMethod"`
	Parameters              []Parameter       `json:"parameters"`
	InputText               string            `json:"inputText,omitempty"`
	SessionID               string            `json:"sessionId,omitempty"`
	Agent                   *AgentInfo        `json:"agent,omitempty"`
	SessionAttributes       map[string]string `json:"sessionAttributes,omitempty"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes,omitempty"`
}

// ResponseEnvelope is the fixed-shape result handed back to the platform.
type ResponseEnvelope struct {
	MessageVersion string         `json:"messageVersion"`
	Response       ActionResponse `json:"response"`
}

type ActionResponse struct {
	ActionGroup             string            `json:"actionGroup"`
	APIPath                 string            `json:"apiPath"`
	HTTPMethod              string            `json:"httpMethod"`
	HTTPStatusCode          int               `json:"httpStatusCode"`
	ResponseBody            map[string]Body   `json:"responseBody"`
	SessionAttributes       map[string]string `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes"`
}

// Body wraps the route data under its media type.
type Body struct {
	Body any `json:"body"`
}

// NewEnvelope wraps data for inv. The status is always 200 and the session
// attribute maps are always empty, never nil.
func NewEnvelope(inv Invocation, data any) *ResponseEnvelope {
	return &ResponseEnvelope{
		MessageVersion: MessageVersion,
		Response: ActionResponse{
			ActionGroup:    inv.ActionGroup,
			APIPath:        inv.APIPath,
			HTTPMethod:     inv.HTTPMethod,
			HTTPStatusCode: 200,
			ResponseBody: map[string]Body{
				ContentTypeJSON: {Body: data},
			},
			SessionAttributes:       map[string]string{},
			PromptSessionAttributes: map[string]string{},
		},
	}
}

// Data returns the JSON body carried by the envelope.
func (e *ResponseEnvelope) Data() any {
	return e.Response.ResponseBody[ContentTypeJSON].Body
}

// Outcome classifies how an invocation ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// InvocationRecord is one audit-ledger entry.
type InvocationRecord struct {
	ID          string    `json:"id" bson:"id" firestore:"id"`
	ActionGroup string    `json:"action_group" bson:"action_group" firestore:"action_group"`
	APIPath     string    `json:"api_path" bson:"api_path" firestore:"api_path"`
	HTTPMethod  string    `json:"http_method" bson:"http_method" firestore:"http_method"`
	Route       string    `json:"route" bson:"route" firestore:"route"`
	SessionID   string    `json:"session_id,omitempty" bson:"session_id,omitempty" firestore:"session_id,omitempty"`
	Outcome     Outcome   `json:"outcome" bson:"outcome" firestore:"outcome"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty" firestore:"error,omitempty"`
	DurationMs  int64     `json:"duration_ms" bson:"duration_ms" firestore:"duration_ms"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" firestore:"created_at"`
}
