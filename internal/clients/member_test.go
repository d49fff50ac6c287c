package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/httpclient"
)

func TestGetMember(t *testing.T) {
	var gotPath, gotContentType, gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 2175107, "firstName": "Eric", "lastName": "Bach"}`))
	}))
	defer server.Close()

	client := NewMemberClient(server.URL+"/prod/", 5*time.Second)
	raw, err := client.GetMember(context.Background(), "2175107")
	if err != nil {
		t.Fatalf("GetMember() error: %v", err)
	}

	if gotMethod != http.MethodGet {
		t.Errorf("method = %v, want GET", gotMethod)
	}
	if gotPath != "/prod/member/2175107" {
		t.Errorf("path = %v, want /prod/member/2175107", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content-type = %v, want application/json", gotContentType)
	}
	if string(raw) != `{"id": 2175107, "firstName": "Eric", "lastName": "Bach"}` {
		t.Errorf("GetMember() = %s", raw)
	}
}

func TestGetMember_EscapesMemberNumber(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewMemberClient(server.URL+"/", 5*time.Second)
	if _, err := client.GetMember(context.Background(), "a/b c"); err != nil {
		t.Fatalf("GetMember() error: %v", err)
	}

	if gotPath != "/member/a%2Fb%20c" {
		t.Errorf("path = %v, want /member/a%%2Fb%%20c", gotPath)
	}
}

func TestGetMember_ServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMemberClient(server.URL+"/", 5*time.Second)
	_, err := client.GetMember(context.Background(), "42")

	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("GetMember() error = %v, want *httpclient.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %v, want 500", httpErr.StatusCode)
	}
	if attempts != 1 {
		t.Errorf("attempts = %v, want 1", attempts)
	}
}
