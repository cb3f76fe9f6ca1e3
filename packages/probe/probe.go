package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/hitbase/packages/http"
)

// ErrNotReady is returned when the target never reached the expected status
var ErrNotReady = errors.New("target not ready")

// Getter performs GET requests. *http.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)
}

// Config controls a probe run
type Config struct {
	Path         string
	ExpectStatus int
	Attempts     int
	Rate         float64 // attempts per second
	WaitTimeout  time.Duration
	Interval     time.Duration
	Expect       []Check
	Headers      map[string]string
}

// Check asserts that a gjson path in the body equals a value
type Check struct {
	Path   string `json:"path"`
	Equals any    `json:"equals"`
}

func DefaultConfig() Config {
	return Config{
		Path:         "/",
		ExpectStatus: 200,
		Attempts:     1,
		Rate:         5,
		Interval:     500 * time.Millisecond,
	}
}

// Report summarizes a probe run
type Report struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	StartedAt  time.Time      `json:"startedAt"`
	Duration   time.Duration  `json:"duration"`
	Ready      bool           `json:"ready"`
	Attempts   int            `json:"attempts"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	LastStatus int            `json:"lastStatus,omitempty"`
	Latency    LatencySummary `json:"latency"`
	Failures   []string       `json:"failures,omitempty"`
}

// OK reports whether the target was ready and every attempt passed
func (r *Report) OK() bool {
	return r.Ready && r.Attempts > 0 && r.Failed == 0
}

type LogFunc func(format string, args ...any)

type Prober struct {
	client  Getter
	config  Config
	logFunc LogFunc
}

type Option func(*Prober)

func WithLogFunc(fn LogFunc) Option {
	return func(p *Prober) {
		p.logFunc = fn
	}
}

func New(client Getter, config Config, opts ...Option) *Prober {
	d := DefaultConfig()
	if config.Path == "" {
		config.Path = d.Path
	}
	if config.ExpectStatus == 0 {
		config.ExpectStatus = d.ExpectStatus
	}
	if config.Attempts < 1 {
		config.Attempts = d.Attempts
	}
	if config.Rate <= 0 {
		config.Rate = d.Rate
	}
	if config.Interval <= 0 {
		config.Interval = d.Interval
	}

	p := &Prober{client: client, config: config}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prober) log(format string, args ...any) {
	if p.logFunc != nil {
		p.logFunc(format, args...)
	}
}

// Run waits for the target when WaitTimeout is set, then performs the
// configured attempts against baseURL+Path. The report is marked ready once
// the wait succeeds or any attempt gets an HTTP response. Check failures are
// recorded in the report; the error is reserved for cancellation and
// ErrNotReady.
func (p *Prober) Run(ctx context.Context, baseURL string) (*Report, error) {
	url := http.JoinURL(baseURL, p.config.Path)
	report := &Report{
		ID:        uuid.New().String(),
		URL:       url,
		StartedAt: time.Now(),
	}
	defer func() {
		report.Duration = time.Since(report.StartedAt)
	}()

	if p.config.WaitTimeout > 0 {
		status, err := p.WaitReady(ctx, url)
		report.LastStatus = status
		if err != nil {
			report.Failures = append(report.Failures, err.Error())
			return report, err
		}
		report.Ready = true
	}

	limiter := rate.NewLimiter(rate.Limit(p.config.Rate), 1)
	latency := NewLatency()

	for i := 0; i < p.config.Attempts; i++ {
		if err := limiter.Wait(ctx); err != nil {
			report.Latency = latency.Summary()
			return report, err
		}

		report.Attempts++
		resp, err := p.client.Get(ctx, url, p.config.Headers)
		if err != nil {
			if ctx.Err() != nil {
				report.Latency = latency.Summary()
				return report, ctx.Err()
			}
			report.Failed++
			report.Failures = append(report.Failures, fmt.Sprintf("attempt %d: %v", i+1, err))
			continue
		}

		report.Ready = true
		latency.Record(resp.Duration)
		report.LastStatus = resp.StatusCode

		failures := p.evaluate(resp)
		if len(failures) > 0 {
			report.Failed++
			for _, f := range failures {
				report.Failures = append(report.Failures, fmt.Sprintf("attempt %d: %s", i+1, f))
			}
			continue
		}
		report.Passed++
		p.log("attempt %d: %d in %dms", i+1, resp.StatusCode, resp.DurationMs())
	}

	report.Latency = latency.Summary()
	return report, nil
}

func (p *Prober) evaluate(resp *http.Response) []string {
	var failures []string
	if resp.StatusCode != p.config.ExpectStatus {
		failures = append(failures, fmt.Sprintf("status %d, expected %d", resp.StatusCode, p.config.ExpectStatus))
	}
	for _, check := range p.config.Expect {
		got := resp.JSON(check.Path)
		if !Matches(got, check.Equals) {
			actual := "<missing>"
			if got.Exists() {
				actual = got.Raw
			}
			failures = append(failures, fmt.Sprintf("body.%s = %s, expected %v", check.Path, actual, check.Equals))
		}
	}
	return failures
}

// WaitReady polls url until it answers with the expected status or
// WaitTimeout elapses. It returns the last status seen. Cancellation of ctx
// is returned as ctx.Err(), not ErrNotReady.
func (p *Prober) WaitReady(ctx context.Context, url string) (int, error) {
	p.log("Waiting for %s to return %d (timeout: %v, interval: %v)",
		url, p.config.ExpectStatus, p.config.WaitTimeout, p.config.Interval)

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, p.config.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	var lastErr error
	var lastStatus int

	for {
		resp, err := p.client.Get(ctx, url, p.config.Headers)
		if err != nil {
			lastErr = err
		} else {
			lastStatus = resp.StatusCode
			if resp.StatusCode == p.config.ExpectStatus {
				p.log("Service %s is ready (status: %d)", url, resp.StatusCode)
				return lastStatus, nil
			}
		}

		select {
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return lastStatus, err
			}
			if lastStatus != 0 {
				return lastStatus, fmt.Errorf("%w: %s after %v: got status %d, expected %d",
					ErrNotReady, url, p.config.WaitTimeout, lastStatus, p.config.ExpectStatus)
			}
			if lastErr != nil {
				return 0, fmt.Errorf("%w: %s after %v: %v", ErrNotReady, url, p.config.WaitTimeout, lastErr)
			}
			return 0, fmt.Errorf("%w: %s after %v", ErrNotReady, url, p.config.WaitTimeout)
		case <-ticker.C:
		}
	}
}

// Matches compares a gjson result with an expected value decoded from
// YAML or JSON config
func Matches(got gjson.Result, expected any) bool {
	switch v := expected.(type) {
	case nil:
		return got.Type == gjson.Null && got.Exists()
	case string:
		return got.Type == gjson.String && got.Str == v
	case bool:
		return (got.Type == gjson.True || got.Type == gjson.False) && got.Bool() == v
	case int:
		return got.Type == gjson.Number && got.Float() == float64(v)
	case int64:
		return got.Type == gjson.Number && got.Float() == float64(v)
	case float64:
		return got.Type == gjson.Number && got.Float() == v
	default:
		return got.Exists() && got.String() == fmt.Sprint(v)
	}
}
