// Package realtime holds the dashboard's latest metrics snapshot and fans it out to
// observers whenever new raw data arrives.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
	"github.com/sirupsen/logrus"
)

var ErrObserverFailed = errors.New("dashboard observer failed")

// Observer receives every snapshot published after it subscribed.
// Observers run synchronously and in registration order, so they must not block for long.
type Observer func(ctx context.Context, snapshot reports.MetricsSnapshot) error

type subscription struct {
	id      uint64
	fn      Observer
	removed atomic.Bool
}

type Publisher struct {
	// updateMu makes UpdateData single-writer: compute, store and notify happen as one step.
	updateMu sync.Mutex

	mu        sync.RWMutex
	current   *reports.MetricsSnapshot
	observers []*subscription
	nextID    uint64

	logger *logrus.Logger
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Publisher)

func WithLogger(logger *logrus.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLocation sets the business timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(p *Publisher) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func NewPublisher(opts ...Option) *Publisher {
	p := &Publisher{
		logger: config.GetLogger(),
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers observer and returns a function that removes exactly that
// registration. Calling the returned function more than once is a no-op.
func (p *Publisher) Subscribe(observer Observer) (unsubscribe func()) {
	p.mu.Lock()
	p.nextID++
	sub := &subscription{id: p.nextID, fn: observer}
	p.observers = append(p.observers, sub)
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.removed.Store(true)
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, s := range p.observers {
				if s.id == sub.id {
					p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// UpdateData computes a full snapshot from raw, replaces the current one and notifies
// every registered observer once, in registration order. Observer failures are logged
// and never reach the caller.
func (p *Publisher) UpdateData(ctx context.Context, raw models.RawData) reports.MetricsSnapshot {
	p.updateMu.Lock()
	defer p.updateMu.Unlock()

	snapshot := reports.ComputeSnapshot(raw, p.now().In(p.loc))

	p.mu.Lock()
	stored := snapshot.Clone()
	p.current = &stored
	subs := append([]*subscription(nil), p.observers...)
	p.mu.Unlock()

	for _, sub := range subs {
		if sub.removed.Load() {
			continue
		}
		p.notify(ctx, sub, snapshot.Clone())
	}
	return snapshot
}

// GetCurrentMetrics returns a copy of the last snapshot; ok is false before the first UpdateData.
func (p *Publisher) GetCurrentMetrics() (snapshot reports.MetricsSnapshot, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return reports.MetricsSnapshot{}, false
	}
	return p.current.Clone(), true
}

func (p *Publisher) notify(ctx context.Context, sub *subscription, snapshot reports.MetricsSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			config.LogError(p.logger, "Realtime", "UpdateData", "observer panicked", sub.id, fmt.Errorf("%w: %v", ErrObserverFailed, r))
		}
	}()
	if err := sub.fn(ctx, snapshot); err != nil {
		config.LogError(p.logger, "Realtime", "UpdateData", "observer returned error", sub.id, fmt.Errorf("%w: %w", ErrObserverFailed, err))
	}
}
