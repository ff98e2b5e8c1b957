package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/railoptima/railoptima/core/logger"
	"github.com/railoptima/railoptima/core/metrics"
)

// Config defines the endpoints to watch and the per-request timeout.
type Config struct {
	Endpoints      []string `json:"endpoints" yaml:"endpoints"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Result is the outcome of one probe.
type Result struct {
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Latency    time.Duration `json:"latency"`
	Err        string        `json:"error,omitempty"`
	Time       time.Time     `json:"time"`
}

// Healthy reports whether the endpoint answered with a 2xx status.
func (r Result) Healthy() bool {
	return r.Err == "" && r.StatusCode >= 200 && r.StatusCode < 300
}

// History accumulates probe results. It is an explicitly owned state object:
// every Prober receives its own instance unless callers choose to share one.
type History struct {
	mu      sync.Mutex
	results []Result
}

// Append stores a result.
func (h *History) Append(r Result) {
	h.mu.Lock()
	h.results = append(h.results, r)
	h.mu.Unlock()
}

// Snapshot returns a copy of all recorded results.
func (h *History) Snapshot() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Result, len(h.results))
	copy(out, h.results)
	return out
}

// Failures returns the recorded unhealthy results.
func (h *History) Failures() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Result
	for _, r := range h.results {
		if !r.Healthy() {
			out = append(out, r)
		}
	}
	return out
}

// Prober measures latency and availability of the configured endpoints.
type Prober struct {
	cfg     Config
	client  *http.Client
	log     logger.Logger
	sink    metrics.ProbeRecorder
	history *History
}

// NewProber builds a prober. A nil sink disables metrics, a nil history
// allocates a private one.
func NewProber(cfg Config, log logger.Logger, sink metrics.ProbeRecorder, history *History) *Prober {
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if history == nil {
		history = &History{}
	}
	return &Prober{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:     log,
		sink:    sink,
		history: history,
	}
}

// History exposes the prober's accumulated results.
func (p *Prober) History() *History { return p.history }

// Check probes a single endpoint and records the outcome.
func (p *Prober) Check(ctx context.Context, url string) Result {
	res := Result{URL: url, Time: time.Now()}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = err.Error()
	} else {
		start := time.Now()
		resp, err := p.client.Do(req)
		res.Latency = time.Since(start)
		if err != nil {
			res.Err = err.Error()
		} else {
			res.StatusCode = resp.StatusCode
			_ = resp.Body.Close()
		}
	}

	if res.Healthy() {
		p.log.Infof("%s responded in %.2f ms (status=%d)", url, float64(res.Latency.Microseconds())/1000, res.StatusCode)
	} else {
		p.log.Errorf("FAILURE: %s: %s", url, res.failureReason())
	}
	p.history.Append(res)
	if err := p.sink.RecordProbe(metrics.ProbeEvent{
		URL:        res.URL,
		StatusCode: res.StatusCode,
		LatencyMS:  float64(res.Latency.Microseconds()) / 1000,
		Error:      res.Err,
		Time:       res.Time,
	}); err != nil {
		p.log.Warnf("record probe: %v", err)
	}
	return res
}

func (r Result) failureReason() string {
	if r.Err != "" {
		return r.Err
	}
	return fmt.Sprintf("status %d", r.StatusCode)
}

// CheckAll probes every configured endpoint in order.
func (p *Prober) CheckAll(ctx context.Context) []Result {
	results := make([]Result, 0, len(p.cfg.Endpoints))
	for _, url := range p.cfg.Endpoints {
		if ctx.Err() != nil {
			break
		}
		results = append(results, p.Check(ctx, url))
	}
	return results
}
