package clients

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/httpclient"
)

// MemberClient reads member profiles from the downstream API gateway.
type MemberClient struct {
	baseURL string
	client  *httpclient.Client
}

// NewMemberClient creates a client that sends each lookup exactly once.
func NewMemberClient(baseURL string, timeout time.Duration) *MemberClient {
	return &MemberClient{
		baseURL: baseURL,
		client:  httpclient.NewClient("member-api", timeout),
	}
}

// GetMember fetches GET <baseURL>member/<memberNumber> and returns the JSON body.
// A non-2xx status is reported as *httpclient.HTTPError.
func (c *MemberClient) GetMember(ctx context.Context, memberNumber string) (json.RawMessage, error) {
	return httpclient.NewRequest("GET", c.baseURL).
		Path("member/" + url.PathEscape(memberNumber)).
		Header("content-type", "application/json").
		Context(ctx).
		ExecuteRaw(c.client)
}
