package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/sentry-client/internal"
	"github.com/iksnae/sentry-client/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"version flag", []string{"--version"}, false},
		{"help flag", []string{"--help"}, false},
		{"nonexistent command", []string{"nonexistent-command"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"login", "logout", "whoami", "upload", "search", "demo", "open", "healthcheck"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestLoginUploadSearchLogout(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "--user-id", "1", "--password", "pw")
	require.NoError(t, err)

	out, err := env.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")
	assert.NotContains(t, out, testToken, "token must be masked")

	pdf := testutil.WriteFile(t, env.dir, "a.pdf", testutil.PDFHeader)
	png := testutil.WriteFile(t, env.dir, "b.png", testutil.PNGHeader)
	out, err = env.run(t, "upload", pdf, png, "--level", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "a.pdf, b.png")
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "Scrambled:   Yes")

	require.Len(t, env.backend.ingestedRequests(), 1)
	assert.Equal(t, "a.pdf, b.png", env.backend.ingestedRequests()[0].Content)
	assert.Equal(t, 9, env.backend.ingestedRequests()[0].Sensitivity)
	assert.Equal(t, []string{"employee"}, env.backend.ingestedRequests()[0].ACLRoles)
	assert.Equal(t, "Bearer "+testToken, env.backend.authHeaders()[0])

	out, err = env.run(t, "search", "who", "knows")
	require.NoError(t, err)
	assert.Contains(t, out, "The answer")
	require.Len(t, env.backend.queryRequests(), 1)
	assert.Equal(t, internal.QueryRequest{Query: "who knows", Purpose: "general", MaxChunks: 3}, env.backend.queryRequests()[0])

	out, err = env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "/login")

	_, err = env.run(t, "whoami")
	assert.ErrorIs(t, err, internal.ErrNotAuthenticated)

	_, err = env.run(t, "logout")
	assert.NoError(t, err, "logout twice is fine")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "login", "--user-id", "1", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	_, err = env.run(t, "login", "--password", "pw")
	var valErr *internal.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestUpload_TextTakesPrecedence(t *testing.T) {
	env := newTestEnv(t)
	pdf := testutil.WriteFile(t, env.dir, "a.pdf", testutil.PDFHeader)

	out, err := env.run(t, "upload", pdf, "--text", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Confidential")

	require.Len(t, env.backend.ingestedRequests(), 1)
	assert.Equal(t, "hello", env.backend.ingestedRequests()[0].Content)
	assert.Equal(t, 7, env.backend.ingestedRequests()[0].Sensitivity)
	assert.Equal(t, "", env.backend.authHeaders()[0], "no credential, no Authorization header")
}

func TestUpload_NothingToUpload(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "upload", "--text", "   ")
	var valErr *internal.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Empty(t, env.backend.ingestedRequests())
}

func TestUpload_RejectedFileIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	big := testutil.WriteSparseFile(t, env.dir, "big.txt", 25*1024*1024)

	_, err := env.run(t, "upload", big)
	var valErr *internal.ValidationError
	require.True(t, errors.As(err, &valErr), "only file was rejected, nothing left to upload")
	assert.Empty(t, env.backend.ingestedRequests())
}

func TestUpload_InvalidLevel(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "upload", "--text", "x", "--level", "11")
	require.Error(t, err)
	assert.Empty(t, env.backend.ingestedRequests())
}

func TestSearch_BlankQuery(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "search")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter a search query")
	assert.Empty(t, env.backend.queryRequests())
}

func TestSearch_FailureShowsFallbackAndExports(t *testing.T) {
	env := newTestEnv(t)
	env.backend.failQuery = true
	outDir := filepath.Join(env.dir, "exports")

	out, stderr, err := env.runStreams(t, "search", "node", "--sort", "date_desc", "--export", "csv", "--out", outDir)

	var queryErr *internal.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "backend exploded\n", queryErr.Message)
	assert.NotContains(t, out+stderr, "backend exploded", "the query error is reported once, by Execute")
	assert.Contains(t, out, "3 result(s)")
	assert.Contains(t, out, "Node.js Logo")

	data, err := os.ReadFile(filepath.Join(outDir, "search_results.csv"))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"Type","Content","Privacy","Date"`, lines[0])
	assert.Equal(t, `"Image","Node.js Logo","Restricted","2024-05-30"`, lines[1])
}

func TestSearch_EmptyExportWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.backend.failQuery = true
	outDir := filepath.Join(env.dir, "exports")

	_, err := env.run(t, "search", "python", "--export", "csv", "--out", outDir)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "search_results.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSearch_InvalidFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "search", "x", "--sort", "size")
	assert.Error(t, err)

	_, err = env.run(t, "search", "x", "--privacy", "Secret")
	assert.Error(t, err)

	_, err = env.run(t, "search", "x", "--export", "xml")
	assert.Error(t, err)

	assert.Empty(t, env.backend.queryRequests())
}

func TestDemoCommand(t *testing.T) {
	env := newTestEnv(t)
	f := testutil.WriteFile(t, env.dir, "f.txt", []byte("hello"))

	out, err := env.run(t, "demo", f, "--query", "f")
	require.NoError(t, err)
	assert.Contains(t, out, "1 document(s) uploaded")
	assert.Contains(t, out, "User View")
	assert.Contains(t, out, "Attacker View")
	assert.Contains(t, out, ".txt")
}

func TestDemoCommand_NothingToUpload(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "demo")
	require.Error(t, err)
	assert.Equal(t, "Please upload a file(s) or paste some text first!", err.Error())
}

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/dashboard", []string{"Route:   /dashboard", "upload", "sentry upload", "/dashboard/upload | /dashboard/search | /dashboard/demo"}},
		{"/dashboard/search", []string{"Route:   /dashboard/search", "sentry search"}},
		{"/nowhere", []string{"redirected to /", "Route:   /", "home"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := runCommand("open", tt.path)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestHealthcheckCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "healthcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Client storage accessible")
	assert.Contains(t, out, "No credential stored")
	assert.Contains(t, out, "Backend reachable")
}

func TestHealthcheckCommand_BackendDown(t *testing.T) {
	env := newTestEnv(t)
	env.server.Close()

	out, err := env.run(t, "healthcheck")
	require.Error(t, err)
	assert.Contains(t, out, "Backend unreachable")
}
