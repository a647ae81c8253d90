package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_IngestSendsContract(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, IngestPath, r.URL.Path)
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = w.Write([]byte(`{"doc_id":"doc-1","chunks_created":4,"chunks":[],"pii_stats":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)
	resp, err := client.Ingest(context.Background(), "tok", IngestRequest{
		OrgID:       1,
		Title:       "Uploaded Document",
		Content:     "a.pdf, b.png",
		Sensitivity: 7,
		ACLRoles:    []string{"employee"},
	})
	require.NoError(t, err)

	assert.Equal(t, "doc-1", resp.DocID)
	assert.Equal(t, 4, resp.ChunksCreated)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer tok", gotHeaders.Get("Authorization"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-ID"))

	assert.Equal(t, float64(1), gotBody["org_id"])
	assert.Equal(t, "a.pdf, b.png", gotBody["content"])
	assert.Equal(t, float64(7), gotBody["sensitivity"])
	assert.Equal(t, []interface{}{"employee"}, gotBody["acl_roles"])
}

func TestClient_NoTokenOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Query(context.Background(), "", QueryRequest{Query: "q"})
	require.NoError(t, err)
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{name: "string detail", status: 401, body: `{"detail":"Invalid credentials"}`, wantDetail: "Invalid credentials"},
		{
			name:       "validation detail",
			status:     422,
			body:       `{"detail":[{"loc":["body","sensitivity"],"msg":"field required","type":"missing"}]}`,
			wantDetail: "body.sensitivity: field required",
		},
		{name: "plain text", status: 500, body: "Internal Server Error", wantDetail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Ingest(context.Background(), "tok", IngestRequest{})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "want APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Equal(t, http.StatusText(tt.status), apiErr.StatusText)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Query(context.Background(), "tok", QueryRequest{Query: "q"})
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "want NetworkError, got %v", err)
	assert.Equal(t, QueryPath, netErr.Endpoint)
}

func TestClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewClient(srv.URL, 5*time.Second).Query(ctx, "tok", QueryRequest{Query: "q"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LoginPath, r.URL.Path)
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 101, req.UserID)
		assert.Equal(t, "secret", req.Password)
		_, _ = w.Write([]byte(`{"access_token":"jwt","token_type":"bearer"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second).Login(context.Background(), LoginRequest{UserID: 101, OrgID: 1, Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL, time.Second).Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}
