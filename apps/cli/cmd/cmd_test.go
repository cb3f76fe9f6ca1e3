package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitbase/packages/core/config"
)

// resetFlags restores every flag to its default so commands can be executed
// repeatedly in one process
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--no-color"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolve_DirectDefault(t *testing.T) {
	inTempDir(t)

	out, _, err := execute(t, "resolve")

	require.NoError(t, err)
	assert.Equal(t, "baseUrl: http://localhost:8080\n", out)
}

func TestResolve_DirectExplicitJSON(t *testing.T) {
	inTempDir(t)

	out, _, err := execute(t, "resolve", "-D", "baseUrl=https://api.example.com", "-o", "json")

	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "https://api.example.com", doc["baseUrl"])
	assert.Equal(t, "direct", doc["strategy"])
	assert.Equal(t, "dev", doc["environment"])
	assert.Equal(t, map[string]any{"connectTimeout": 5000.0, "readTimeout": 5000.0, "ssl": true}, doc["configure"])
}

func TestResolve_PortStrategy(t *testing.T) {
	inTempDir(t)

	out, errOut, err := execute(t, "resolve", "--strategy", "port", "-D", "server.port=9090")

	require.NoError(t, err)
	assert.Equal(t, "baseUrl: http://localhost:9090\n", out)
	assert.Contains(t, errOut, "Using port: 9090\n")
	assert.Contains(t, errOut, "Using baseUrl: http://localhost:9090\n")
}

func TestResolve_PortStrategyMissingPort(t *testing.T) {
	inTempDir(t)

	out, _, err := execute(t, "resolve", "-s", "port", "-D", "baseUrl=https://ignored.example.com")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, out, `"server.port"`)
	assert.Contains(t, out, "HITBASE_SERVER_PORT")
	assert.NotContains(t, out, "baseUrl:")
}

func TestResolve_InvalidProperty(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "resolve", "-s", "port", "-D", "server.port=80a")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestResolve_UnknownStrategy(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "resolve", "--strategy", "dns")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestResolve_UnknownFlag(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "resolve", "--bogus")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestResolve_PropertyPrecedence(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, ".env"), "HITBASE_BASE_URL=http://from-file:1\nHITBASE_ENV=qa\n")

	out, _, err := execute(t, "resolve", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"baseUrl": "http://from-file:1"`)
	assert.Contains(t, out, `"environment": "qa"`)

	t.Setenv("HITBASE_BASE_URL", "http://from-env:2")
	out, _, err = execute(t, "resolve", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"baseUrl": "http://from-env:2"`)

	out, _, err = execute(t, "resolve", "-o", "json", "-D", "baseUrl=http://from-flag:3")
	require.NoError(t, err)
	assert.Contains(t, out, `"baseUrl": "http://from-flag:3"`)
}

func TestResolve_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, ".hitbase.yaml"), `strategy: port
environment: ci
properties:
  serverPort: local.server.port
`)

	out, errOut, err := execute(t, "resolve", "-D", "local.server.port=4000", "-v")

	require.NoError(t, err)
	assert.Contains(t, out, "baseUrl: http://localhost:4000")
	assert.Contains(t, out, "strategy:    port")
	assert.Contains(t, out, "environment: ci")
	assert.Contains(t, errOut, "property local.server.port from flag (HITBASE_LOCAL_SERVER_PORT)")
}

func TestResolve_InvalidConfigFile(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, ".hitbase.yaml"), "strategy: dns\n")

	_, _, err := execute(t, "resolve")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, err.Error(), "invalid config")
}

func TestResolve_ShellOutput(t *testing.T) {
	inTempDir(t)

	out, _, err := execute(t, "resolve", "-o", "shell", "-D", "baseUrl=https://api.example.com/v1?a=b")

	require.NoError(t, err)
	assert.Contains(t, out, "export HITBASE_BASE_URL='https://api.example.com/v1?a=b'\n")
	assert.Contains(t, out, "export HITBASE_SSL=true\n")
}

func TestResolve_History(t *testing.T) {
	dir := inTempDir(t)
	store := "sqlite:" + filepath.Join(dir, "history.db")

	_, _, err := execute(t, "resolve", "--history", store, "-D", "baseUrl=http://one.example.com")
	require.NoError(t, err)
	_, _, err = execute(t, "resolve", "--history", store, "-s", "port", "-D", "server.port=7000")
	require.NoError(t, err)

	out, _, err := execute(t, "history", "--history", store, "-o", "json")
	require.NoError(t, err)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "http://localhost:7000", entries[0].URL)
	assert.Equal(t, "http://one.example.com", entries[1].URL)
	assert.Equal(t, "resolve", entries[0].Kind)
	assert.True(t, entries[0].Success)
}

func TestHistory_NotConfigured(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "history")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestCheck_Ready(t *testing.T) {
	inTempDir(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "UP"}`))
	}))
	defer server.Close()

	out, _, err := execute(t, "check", "-D", "baseUrl="+server.URL, "--path", "/health",
		"-n", "2", "-r", "100", "-H", "Authorization: Bearer token")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+server.URL+"/health")
	assert.Contains(t, out, "Attempts: 2 passed, 2 total")
}

func TestCheck_Failing(t *testing.T) {
	inTempDir(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	out, _, err := execute(t, "check", "-D", "baseUrl="+server.URL)

	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, exitCode(err))
	assert.Contains(t, out, "status 503, expected 200")
}

func TestCheck_NotReady(t *testing.T) {
	inTempDir(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, _, err := execute(t, "check", "-D", "baseUrl="+server.URL, "--wait", "100ms", "--interval", "10ms")

	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, exitCode(err))
	assert.Contains(t, err.Error(), "target not ready")
}

func TestCheck_BodyExpectationsFromConfig(t *testing.T) {
	dir := inTempDir(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "DOWN"}`))
	}))
	defer server.Close()
	writeFile(t, filepath.Join(dir, ".hitbase.yaml"), `probe:
  expect:
    - path: status
      equals: UP
`)

	out, _, err := execute(t, "check", "-D", "baseUrl="+server.URL, "-o", "json")

	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, exitCode(err))
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, false, doc["ok"])
}

func TestCheck_MissingPort(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "check", "--strategy", "port")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestCheck_InvalidHeader(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "check", "-H", "no-colon")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestInit(t *testing.T) {
	dir := inTempDir(t)

	out, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created: ")

	cfg, err := config.LoadConfig(filepath.Join(dir, ".hitbase.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "direct", cfg.Strategy)
	assert.Equal(t, "/actuator/health", cfg.Probe.Path)
	require.Len(t, cfg.Probe.Expect, 1)
	assert.FileExists(t, filepath.Join(dir, ".env.example"))

	_, _, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "init", "--force")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "hitbase version dev")
}

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders([]string{"Accept: application/json", "X-Trace:  abc "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Accept": "application/json", "X-Trace": "abc"}, headers)

	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)

	headers, err = parseHeaders(nil)
	require.NoError(t, err)
	assert.Nil(t, headers)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, exitCode(assert.AnError))
	assert.Equal(t, ExitUsageError, exitCode(usageError(assert.AnError)))
	assert.Equal(t, ExitConfigError, exitCode(configError(assert.AnError)))
}
