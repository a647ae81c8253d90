package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/iksnae/sentry-client/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testToken = "tok-1234567890"

// fakeBackend records what the commands send
type fakeBackend struct {
	mu         sync.Mutex
	ingested   []internal.IngestRequest
	queries    []internal.QueryRequest
	authHeader []string
	failQuery  bool
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req internal.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.UserID != 1 || req.Password != "pw" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(internal.TokenResponse{AccessToken: testToken, TokenType: "bearer"})
	})
	mux.HandleFunc("/documents/ingest", func(w http.ResponseWriter, r *http.Request) {
		var req internal.IngestRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.ingested = append(b.ingested, req)
		b.authHeader = append(b.authHeader, r.Header.Get("Authorization"))
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(internal.IngestResponse{DocID: "doc-1", ChunksCreated: 2})
	})
	mux.HandleFunc("/documents/query", func(w http.ResponseWriter, r *http.Request) {
		var req internal.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.queries = append(b.queries, req)
		fail := b.failQuery
		b.mu.Unlock()
		if fail {
			http.Error(w, "backend exploded", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(internal.QueryResponse{Answer: "The answer"})
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (b *fakeBackend) ingestedRequests() []internal.IngestRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]internal.IngestRequest(nil), b.ingested...)
}

func (b *fakeBackend) queryRequests() []internal.QueryRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]internal.QueryRequest(nil), b.queries...)
}

func (b *fakeBackend) authHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeader...)
}

// testEnv points the commands at a fake backend and a temp storage database
type testEnv struct {
	backend *fakeBackend
	server  *httptest.Server
	dir     string
	storage string
	config  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := &fakeBackend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	t.Setenv("SENTRY_PROGRESS_UPLOAD_INTERVAL", "1ms")
	t.Setenv("SENTRY_PROGRESS_DEMO_INTERVAL", "1ms")

	dir := t.TempDir()
	return &testEnv{
		backend: b,
		server:  srv,
		dir:     dir,
		storage: filepath.Join(dir, "storage.db"),
		config:  filepath.Join(dir, "missing-config.yaml"),
	}
}

// run executes the root command with the env's global flags prepended
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := e.runStreams(t, args...)
	return stdout, err
}

// runStreams is run, also returning what the command wrote to stderr
func (e *testEnv) runStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	full := append([]string{"--config", e.config, "--storage", e.storage, "--api", e.server.URL}, args...)
	return executeRoot(full...)
}

func runCommand(args ...string) (string, error) {
	stdout, _, err := executeRoot(args...)
	return stdout, err
}

func executeRoot(args ...string) (string, string, error) {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default; cobra keeps values between executions
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
