// Package probe checks a running dashboard end to end: it walks every state,
// metric and mode through the breakdown API concurrently and verifies each
// result is a consistent waffle.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/pkg/logger"
)

// Errors reported by Run.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrRequestID        = errors.New("request id not echoed")
	ErrFailed           = errors.New("probe failed")
)

// Defaults applied by Run to zero Config fields.
const (
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second

	// jobs queued per worker
	queueFactor = 2
)

// Config holds the probe settings.
type Config struct {
	BaseURL string
	Workers int
	Timeout time.Duration
}

// Stats summarizes one probe run.
type Stats struct {
	Requests   int
	OK         int
	NoData     int
	TooSmall   int
	Failed     int
	Violations []string
	Duration   time.Duration
}

type job struct {
	state  string
	metric string
	mode   breakdown.Mode
}

func (j job) path() string {
	q := url.Values{}
	q.Set("state", j.state)
	q.Set("metric", j.metric)
	q.Set("mode", string(j.mode))
	return "/api/breakdown?" + q.Encode()
}

func (j job) String() string {
	return fmt.Sprintf("%s/%s/%s", j.state, j.metric, j.mode)
}

type metricInfo struct {
	Name string `json:"name"`
}

// Run probes the dashboard at cfg.BaseURL. It fails with ErrFailed when any
// request fails or any result is inconsistent; Stats are returned either way.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	start := time.Now()
	log := logger.Named("probe")
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	if err := c.getJSON(ctx, "/healthz", nil); err != nil {
		return Stats{}, fmt.Errorf("health check: %w", err)
	}
	jobs, err := plan(ctx, c)
	if err != nil {
		return Stats{}, err
	}

	stats := execute(ctx, c, cfg.Workers, jobs)
	stats.Duration = time.Since(start)

	log.Info(ctx, "probe finished",
		logger.Int("requests", stats.Requests),
		logger.Int("ok", stats.OK),
		logger.Int("noData", stats.NoData),
		logger.Int("tooSmall", stats.TooSmall),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration),
	)
	if stats.Failed > 0 || len(stats.Violations) > 0 {
		return stats, fmt.Errorf("%w: %d failed, %d inconsistent", ErrFailed, stats.Failed, len(stats.Violations))
	}
	return stats, nil
}

// plan lists every state (and the nation) by every metric and mode.
func plan(ctx context.Context, c *client) ([]job, error) {
	var states []string
	if err := c.getJSON(ctx, "/api/states", &states); err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	var metrics []metricInfo
	if err := c.getJSON(ctx, "/api/metrics", &metrics); err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}

	states = append([]string{breakdown.AllStates}, states...)
	modes := []breakdown.Mode{breakdown.ModeStateVsRest, breakdown.ModeByImpactType}
	jobs := make([]job, 0, len(states)*len(metrics)*len(modes))
	for _, s := range states {
		for _, m := range metrics {
			for _, mode := range modes {
				jobs = append(jobs, job{state: s, metric: m.Name, mode: mode})
			}
		}
	}
	return jobs, nil
}

// execute runs jobs on a fixed pool of workers.
func execute(ctx context.Context, c *client, workers int, jobs []job) Stats {
	var (
		requests, ok, noData, tooSmall, failed int64

		mu         sync.Mutex
		violations []string
	)
	log := logger.Named("probe")

	queue := make(chan job, workers*queueFactor)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				atomic.AddInt64(&requests, 1)
				var res breakdown.Result
				if err := c.getJSON(ctx, j.path(), &res); err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "breakdown request failed", logger.String("job", j.String()), logger.Error(err))
					continue
				}
				switch res.Status {
				case breakdown.StatusOK:
					atomic.AddInt64(&ok, 1)
				case breakdown.StatusNoData:
					atomic.AddInt64(&noData, 1)
				case breakdown.StatusTooSmall:
					atomic.AddInt64(&tooSmall, 1)
				}
				if problems := Verify(res); len(problems) > 0 {
					mu.Lock()
					for _, p := range problems {
						violations = append(violations, j.String()+": "+p)
					}
					mu.Unlock()
				}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, j := range jobs {
			select {
			case <-ctx.Done():
				return
			case queue <- j:
			}
		}
	}()
	wg.Wait()

	return Stats{
		Requests:   int(requests),
		OK:         int(ok),
		NoData:     int(noData),
		TooSmall:   int(tooSmall),
		Failed:     int(failed),
		Violations: violations,
	}
}
