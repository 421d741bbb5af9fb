// Package watch rebuilds the site when content changes and hands the new
// snapshot to the HTTP server.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/rfcsite/internal/metrics"
	"github.com/dgallion1/rfcsite/internal/site"
)

// Status is the state of the most recent rebuild.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusQueued   Status = "queued"
	StatusBuilding Status = "building"
	StatusOK       Status = "ok"
	StatusFailed   Status = "failed"
)

// Result describes the most recent rebuild.
type Result struct {
	Status     Status    `json:"status"`
	Trigger    string    `json:"trigger,omitempty"`
	Error      string    `json:"error,omitempty"`
	Documents  int       `json:"documents"`
	Pending    bool      `json:"pending,omitempty"` // another rebuild is queued behind this one
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// BuildFunc produces a fresh site snapshot.
type BuildFunc func(ctx context.Context) (*site.Site, error)

// Notifier is told about every successful rebuild.
type Notifier interface {
	Broadcast(msg []byte)
}

// ReloadMessage is broadcast after a successful rebuild.
var ReloadMessage = []byte("reload")

// Rebuilder owns the current site snapshot. Rebuilds run one at a time on
// a single worker; triggers that arrive while one is pending are merged.
type Rebuilder struct {
	current atomic.Pointer[site.Site]
	build   BuildFunc
	queue   chan string
	notify  Notifier
	metrics *metrics.Metrics
	log     *slog.Logger

	mu   sync.Mutex
	last Result

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRebuilder starts with initial as the current snapshot. notify and m
// may be nil.
func NewRebuilder(initial *site.Site, build BuildFunc, notify Notifier, m *metrics.Metrics, log *slog.Logger) *Rebuilder {
	rb := &Rebuilder{
		build:   build,
		queue:   make(chan string, 1),
		notify:  notify,
		metrics: m,
		log:     log,
		last:    Result{Status: StatusIdle},
	}
	if initial != nil {
		rb.current.Store(initial)
		rb.last.Documents = len(initial.Routes())
		if m != nil {
			m.SetSnapshot(len(initial.Routes()), len(initial.TOC()))
		}
	}
	return rb
}

// Current returns the snapshot being served.
func (rb *Rebuilder) Current() *site.Site {
	return rb.current.Load()
}

// LastBuild reports the most recent rebuild.
func (rb *Rebuilder) LastBuild() Result {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.last
}

// Start launches the worker goroutine.
func (rb *Rebuilder) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	rb.cancel = cancel

	rb.wg.Add(1)
	go func() {
		defer rb.wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case trigger := <-rb.queue:
				rb.rebuild(workerCtx, trigger)
			}
		}
	}()
}

// Stop waits for an in-flight rebuild to finish and stops the worker.
func (rb *Rebuilder) Stop() {
	if rb.cancel != nil {
		rb.cancel()
	}
	rb.wg.Wait()
}

// Trigger asks for a rebuild. It reports false when a rebuild is already
// queued, in which case this trigger is folded into it.
func (rb *Rebuilder) Trigger(reason string) bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	select {
	case rb.queue <- reason:
		rb.last.Pending = true
		if rb.last.Status != StatusBuilding {
			rb.last.Status = StatusQueued
		}
		return true
	default:
		return false
	}
}

func (rb *Rebuilder) rebuild(ctx context.Context, trigger string) {
	start := time.Now()
	rb.mu.Lock()
	rb.last = Result{
		Status:    StatusBuilding,
		Trigger:   trigger,
		StartedAt: start,
		Documents: rb.last.Documents,
		Pending:   len(rb.queue) > 0,
	}
	rb.mu.Unlock()

	s, err := rb.build(ctx)
	elapsed := time.Since(start)
	if rb.metrics != nil {
		rb.metrics.ObserveRebuild(elapsed, err)
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.last.FinishedAt = time.Now()
	if err != nil {
		rb.last.Status = StatusFailed
		rb.last.Error = err.Error()
		rb.log.Error("rebuild failed, keeping previous site", "trigger", trigger, "error", err)
		return
	}

	rb.current.Store(s)
	rb.last.Status = StatusOK
	rb.last.Documents = len(s.Routes())
	if rb.metrics != nil {
		rb.metrics.SetSnapshot(len(s.Routes()), len(s.TOC()))
	}
	rb.log.Info("site rebuilt",
		"trigger", trigger,
		"documents", rb.last.Documents,
		"duration_ms", elapsed.Milliseconds(),
	)
	if rb.notify != nil {
		rb.notify.Broadcast(ReloadMessage)
	}
}
