package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	hbhttp "github.com/abdul-hamid-achik/hitbase/packages/http"
)

func healthServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/actuator/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestProber_Run(t *testing.T) {
	server := healthServer(t, 200, `{"status": "UP", "components": {"db": {"status": "UP"}}}`)

	p := New(hbhttp.NewClient(), Config{
		Path:     "/actuator/health",
		Attempts: 3,
		Rate:     100,
		Expect: []Check{
			{Path: "status", Equals: "UP"},
			{Path: "components.db.status", Equals: "UP"},
		},
	})

	report, err := p.Run(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, server.URL+"/actuator/health", report.URL)
	assert.Equal(t, 3, report.Attempts)
	assert.Equal(t, 3, report.Passed)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 200, report.LastStatus)
	assert.Equal(t, int64(3), report.Latency.Count)
	assert.Empty(t, report.Failures)
}

func TestProber_RunCheckFailures(t *testing.T) {
	server := healthServer(t, 503, `{"status": "DOWN"}`)

	p := New(hbhttp.NewClient(), Config{
		Path:   "/actuator/health",
		Expect: []Check{{Path: "status", Equals: "UP"}, {Path: "missing", Equals: 1}},
	})

	report, err := p.Run(context.Background(), server.URL)

	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 503, report.LastStatus)
	require.Len(t, report.Failures, 3)
	assert.Contains(t, report.Failures[0], "status 503, expected 200")
	assert.Contains(t, report.Failures[1], `body.status = "DOWN"`)
	assert.Contains(t, report.Failures[2], "<missing>")
}

func TestProber_RunConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	report, err := New(hbhttp.NewClient(), Config{Attempts: 2, Rate: 100}).Run(context.Background(), url)

	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.False(t, report.Ready)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, int64(0), report.Latency.Count)
}

func TestProber_RunReadyAfterAnyResponse(t *testing.T) {
	server := healthServer(t, 500, `{}`)

	report, err := New(hbhttp.NewClient(), Config{Path: "/actuator/health"}).Run(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, report.Ready)
	assert.False(t, report.OK())
}

func TestProber_WaitReady(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var lines []string
	p := New(hbhttp.NewClient(), Config{
		WaitTimeout: 2 * time.Second,
		Interval:    10 * time.Millisecond,
	}, WithLogFunc(func(format string, args ...any) {
		lines = append(lines, format)
	}))

	report, err := p.Run(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.GreaterOrEqual(t, hits.Load(), int32(4))
	assert.NotEmpty(t, lines)
}

func TestProber_WaitReadyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := New(hbhttp.NewClient(), Config{
		WaitTimeout: 100 * time.Millisecond,
		Interval:    10 * time.Millisecond,
	})

	report, err := p.Run(context.Background(), server.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.Contains(t, err.Error(), "got status 503")
	assert.False(t, report.Ready)
	assert.False(t, report.OK())
	assert.Equal(t, 0, report.Attempts)
	assert.Equal(t, 503, report.LastStatus)
}

func TestProber_WaitReadyCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(hbhttp.NewClient(), Config{
		WaitTimeout: time.Second,
		Interval:    10 * time.Millisecond,
	})

	report, err := p.Run(ctx, server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNotReady))
	assert.False(t, report.Ready)
}

func TestProber_RunCancelled(t *testing.T) {
	server := healthServer(t, 200, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(hbhttp.NewClient(), Config{Attempts: 5}).Run(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProber_Defaults(t *testing.T) {
	p := New(hbhttp.NewClient(), Config{})
	assert.Equal(t, DefaultConfig(), p.config)
}

func TestMatches(t *testing.T) {
	body := `{"s": "UP", "n": 3, "f": 1.5, "t": true, "z": null, "o": {"a": 1}}`
	tests := []struct {
		path     string
		expected any
		want     bool
	}{
		{"s", "UP", true},
		{"s", "DOWN", false},
		{"n", 3, true},
		{"n", int64(3), true},
		{"n", 3.0, true},
		{"n", "3", false},
		{"f", 1.5, true},
		{"t", true, true},
		{"t", false, false},
		{"z", nil, true},
		{"missing", nil, false},
		{"o.a", 1, true},
	}

	for _, tt := range tests {
		got := gjson.Get(body, tt.path)
		assert.Equal(t, tt.want, Matches(got, tt.expected), "%s == %v", tt.path, tt.expected)
	}
}
