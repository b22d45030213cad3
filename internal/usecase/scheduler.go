package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type SchedulerState int32

const (
	StateIdle SchedulerState = iota
	StateScanning
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateScanning:
		return "Scanning"
	default:
		return "Unknown"
	}
}

type ScanRunner interface {
	Scan(ctx context.Context) (ScanReport, error)
}

type CycleStats struct {
	StartedAt time.Time
	Duration  time.Duration
	Report    ScanReport
	Err       string
}

type SchedulerStatus struct {
	State     SchedulerState
	Cycles    int
	LastCycle *CycleStats
}

// Scheduler drives scan cycles forever: Idle -> Scanning -> Idle -> sleep -> ...
// At most one scan runs at a time; a start while Scanning is dropped.
type Scheduler struct {
	scanner  ScanRunner
	interval time.Duration
	sleep    Sleeper
	now      func() time.Time
	logger   *zap.Logger

	scanning atomic.Bool

	mu     sync.Mutex
	cycles int
	last   *CycleStats
}

type SchedulerOption func(s *Scheduler)

func WithSchedulerSleeper(sleep Sleeper) SchedulerOption {
	return func(s *Scheduler) {
		s.sleep = sleep
	}
}

func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(scanner ScanRunner, interval time.Duration, logger *zap.Logger, opts ...SchedulerOption) *Scheduler {
	scheduler := &Scheduler{
		scanner:  scanner,
		interval: interval,
		sleep:    SleepContext,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(scheduler)
	}
	return scheduler
}

// Run returns when ctx is cancelled. The in-flight scan is not interrupted
// between groups; outbound calls carry their own timeouts.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	for {
		s.TryScan(ctx)
		if err := s.sleep(ctx, s.interval); err != nil {
			s.logger.Info("scheduler stopped")
			return nil
		}
	}
}

// TryScan starts a scan unless one is already running. It reports whether a
// scan was performed.
func (s *Scheduler) TryScan(ctx context.Context) bool {
	if !s.scanning.CompareAndSwap(false, true) {
		s.logger.Debug("scan already running, start dropped")
		return false
	}
	defer s.scanning.Store(false)

	s.runScan(ctx)
	return true
}

func (s *Scheduler) State() SchedulerState {
	if s.scanning.Load() {
		return StateScanning
	}
	return StateIdle
}

func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{State: s.State(), Cycles: s.cycles}
	if s.last != nil {
		last := *s.last
		status.LastCycle = &last
	}
	return status
}

func (s *Scheduler) runScan(ctx context.Context) {
	stats := CycleStats{StartedAt: s.now()}
	defer func() {
		if r := recover(); r != nil {
			stats.Err = fmt.Sprintf("panic: %v", r)
			s.logger.Error("scan panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		stats.Duration = s.now().Sub(stats.StartedAt)
		s.record(stats)
	}()

	report, err := s.scanner.Scan(ctx)
	stats.Report = report
	if err != nil {
		stats.Err = err.Error()
		s.logger.Error("scan error", zap.Error(err))
	}
}

func (s *Scheduler) record(stats CycleStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles++
	s.last = &stats
}
