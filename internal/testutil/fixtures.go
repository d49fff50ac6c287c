package testutil

import "github.com/parlakisik/agent-exchange/aex-action-router/internal/model"

// InvocationFixture builds invocations for tests.
type InvocationFixture struct {
	inv model.Invocation
}

// NewInvocationFixture returns a member-lookup invocation for member 42.
func NewInvocationFixture() InvocationFixture {
	return InvocationFixture{inv: model.Invocation{
		MessageVersion: "1.0",
		ActionGroup:    "TravelActions",
		APIPath:        "/member/{memberNumber}",
		HTTPMethod:     "GET",
		Parameters: []model.Parameter{
			{Name: "MemberNumber", Type: "string", Value: "42"},
		},
		SessionID: "session-001",
	}}
}

// WithAPIPath sets the API path.
func (f InvocationFixture) WithAPIPath(path string) InvocationFixture {
	f.inv.APIPath = path
	return f
}

// WithParameters replaces the parameter list.
func (f InvocationFixture) WithParameters(params ...model.Parameter) InvocationFixture {
	f.inv.Parameters = params
	return f
}

// WithHTTPMethod sets the HTTP method.
func (f InvocationFixture) WithHTTPMethod(method string) InvocationFixture {
	f.inv.HTTPMethod = method
	return f
}

// Build returns the invocation.
func (f InvocationFixture) Build() model.Invocation {
	return f.inv
}
