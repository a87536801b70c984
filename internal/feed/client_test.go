package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClient_Fetch_SendsWatermarkAndToken verifies the request carries the
// from_date query parameter and the OAuth authorization header.
func TestClient_Fetch_SendsWatermarkAndToken(t *testing.T) {
	var gotAuth, gotFrom, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		_, _ = w.Write([]byte(`{"homeworks": [], "current_date": 1000}`))
	}))
	defer server.Close()

	client := NewClient("secret", WithEndpoint(server.URL))
	defer client.Close()

	raw, err := client.Fetch(context.Background(), 500)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "OAuth secret", gotAuth)
	assert.Equal(t, "500", gotFrom)

	obj, ok := raw.(map[string]any)
	require.True(t, ok, "decoded body should be an object, got %T", raw)
	assert.Equal(t, json.Number("1000"), obj["current_date"])
}

// TestClient_Fetch_KeepsExistingQuery verifies endpoint query parameters
// survive alongside from_date.
func TestClient_Fetch_KeepsExistingQuery(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("t", WithEndpoint(server.URL+"/?lang=ru"))
	_, err := client.Fetch(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"ru"}, gotQuery["lang"])
	assert.Equal(t, []string{"7"}, gotQuery["from_date"])
}

func TestClient_Fetch_ProtocolFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "maintenance"}`))
	}))
	defer server.Close()

	client := NewClient("t", WithEndpoint(server.URL))
	_, err := client.Fetch(context.Background(), 0)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrProtocol)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "Service Unavailable")

	var pe *ProtocolError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)
	assert.Equal(t, "Service Unavailable", pe.Reason)
}

// TestClient_Fetch_ProtocolFailureIsStable verifies two identical failures
// produce identical error text, which the bot relies on for deduplication.
func TestClient_Fetch_ProtocolFailureIsStable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("t", WithEndpoint(server.URL))
	_, err1 := client.Fetch(context.Background(), 42)
	_, err2 := client.Fetch(context.Background(), 42)
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1.Error(), err2.Error())
}

func TestClient_Fetch_DecodeFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"homeworks": [`},
		{name: "empty body", body: ``},
		{name: "html page", body: `<html>oops</html>`},
		{name: "trailing garbage", body: `{"homeworks": []} extra`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("t", WithEndpoint(server.URL))
			_, err := client.Fetch(context.Background(), 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
			assert.NotErrorIs(t, err, ErrProtocol)
			assert.Contains(t, err.Error(), "invalid JSON")
		})
	}
}

func TestClient_Fetch_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing listens anymore

	client := NewClient("t", WithEndpoint(url))
	_, err := client.Fetch(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrProtocol)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient("t", WithEndpoint(server.URL), WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.Fetch(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Less(t, time.Since(start), 2*time.Second)
}

// TestClient_Fetch_SingleAttempt verifies failures are never retried.
func TestClient_Fetch_SingleAttempt(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("t", WithEndpoint(server.URL))
	_, err := client.Fetch(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_Close_NilClient(t *testing.T) {
	var client *Client

	// should not panic on nil receiver
	client.Close()
}
