// Package poller fires due reminders on an interval and hands them to a
// notifier.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"plantcare/pkg/metrics"
	"plantcare/pkg/notify"
	"plantcare/pkg/schedule/service"
)

var ErrAlreadyRunning = errors.New("poller already running")

const DefaultInterval = 30 * time.Second

type Config struct {
	Interval time.Duration
	// Now supplies the asOf instant for each cycle.
	Now func() time.Time
}

// Status is reported by the health endpoint.
type Status struct {
	Running   bool      `json:"running"`
	LastRunAt time.Time `json:"last_run_at,omitempty"`
	LastFired int       `json:"last_fired"`
	LastError string    `json:"last_error,omitempty"`
}

type Poller struct {
	mgr      service.ScheduleManager
	notifier notify.Notifier
	cfg      Config
	log      *zap.Logger

	stopCh   chan struct{}
	stoppedC chan struct{}

	mu     sync.RWMutex
	status Status
}

func New(mgr service.ScheduleManager, n notify.Notifier, cfg Config, log *zap.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{mgr: mgr, notifier: n, cfg: cfg, log: log.Named("poller")}
}

func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.status.Running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.status.Running = true
	p.stopCh = make(chan struct{})
	p.stoppedC = make(chan struct{})
	stopCh, stoppedC := p.stopCh, p.stoppedC
	p.mu.Unlock()

	p.log.Info("starting reminder poller", zap.Duration("interval", p.cfg.Interval))
	go p.loop(ctx, stopCh, stoppedC)
	return nil
}

// Stop waits for the in-flight cycle to finish or ctx to expire.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.status.Running {
		p.mu.Unlock()
		return nil
	}
	p.status.Running = false
	stopCh, stoppedC := p.stopCh, p.stoppedC
	p.mu.Unlock()

	close(stopCh)
	select {
	case <-stoppedC:
		p.log.Info("reminder poller stopped")
		return nil
	case <-ctx.Done():
		p.log.Warn("reminder poller shutdown timed out")
		return ctx.Err()
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	p.mu.RLock()
	done := p.stoppedC
	p.mu.RUnlock()
	<-done
	return nil
}

func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Poller) loop(ctx context.Context, stopCh <-chan struct{}, stoppedC chan<- struct{}) {
	defer close(stoppedC)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.RunOnce(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			p.mu.Lock()
			p.status.Running = false
			p.mu.Unlock()
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single cycle and returns the number of reminders fired.
func (p *Poller) RunOnce(ctx context.Context) int {
	asOf := p.cfg.Now()
	fired, err := p.mgr.DueReminders(ctx, asOf)

	p.mu.Lock()
	p.status.LastRunAt = asOf.UTC()
	p.status.LastFired = len(fired)
	p.status.LastError = ""
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.mu.Unlock()

	if err != nil {
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		p.log.Error("poll cycle failed", zap.Error(err))
		return 0
	}
	metrics.PollCyclesTotal.WithLabelValues("ok").Inc()

	for _, ev := range fired {
		if err := p.notifier.Notify(ctx, ev); err != nil {
			p.log.Warn("notify failed", zap.String("reminder_id", ev.ReminderID), zap.Error(err))
		}
	}
	return len(fired)
}
