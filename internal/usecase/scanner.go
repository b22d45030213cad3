package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, ownerID string, text string) error
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Pacing struct {
	Floor  time.Duration
	Budget time.Duration
}

func DefaultPacing() Pacing {
	return Pacing{Floor: 200 * time.Millisecond, Budget: 2 * time.Second}
}

// PacingDelay spreads the request budget over the available routes, never going
// below floor. Zero routes count as one.
func PacingDelay(floor, budget time.Duration, routes int) time.Duration {
	if routes < 1 {
		routes = 1
	}
	return max(floor, budget/time.Duration(routes))
}

type TriggerEvent struct {
	Alert domain.Alert
	Order domain.Order
}

type ScanReport struct {
	Alerts        int
	Groups        int
	Fetches       int
	FailedFetches int
	Delay         time.Duration
	Triggered     []TriggerEvent
}

type Scanner struct {
	book     *AlertBook
	source   domain.OrderSource
	routes   domain.RouteCounter
	notifier Notifier
	logger   *zap.Logger

	pacing Pacing
	sleep  Sleeper
	now    func() time.Time
}

type ScannerOption func(s *Scanner)

func WithPacing(pacing Pacing) ScannerOption {
	return func(s *Scanner) {
		s.pacing = pacing
	}
}

func WithScanSleeper(sleep Sleeper) ScannerOption {
	return func(s *Scanner) {
		s.sleep = sleep
	}
}

func WithScanClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		s.now = now
	}
}

func NewScanner(book *AlertBook, source domain.OrderSource, routes domain.RouteCounter, notifier Notifier, logger *zap.Logger, opts ...ScannerOption) *Scanner {
	scanner := &Scanner{
		book:     book,
		source:   source,
		routes:   routes,
		notifier: notifier,
		logger:   logger,
		pacing:   DefaultPacing(),
		sleep:    SleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(scanner)
	}
	return scanner
}

// Scan runs one full cycle. Groups are fetched one at a time with the pacing
// delay in front of every fetch. A failed fetch only skips its group; a failed
// trigger commit skips that group's notifications and is reported in the error.
func (s *Scanner) Scan(ctx context.Context) (ScanReport, error) {
	var report ScanReport

	alerts, err := s.book.Snapshot(ctx)
	if err != nil {
		return report, fmt.Errorf("load alerts: %w", err)
	}
	groups := GroupAlerts(alerts)

	report.Alerts = len(alerts)
	report.Groups = len(groups)
	report.Delay = PacingDelay(s.pacing.Floor, s.pacing.Budget, s.routes.Count())

	s.logger.Info(
		"scan start",
		zap.Int("alerts", report.Alerts),
		zap.Int("groups", report.Groups),
		zap.Duration("delay", report.Delay),
	)

	var commitErrs []error
	for _, group := range groups {
		if err := s.sleep(ctx, report.Delay); err != nil {
			return report, err
		}

		report.Fetches++
		orders, err := s.source.FetchOrders(ctx, group.Key.Query())
		if err != nil {
			report.FailedFetches++
			s.logger.Warn("fetch failed", zap.String("group", group.Key.String()), zap.Error(err))
			continue
		}
		if len(orders) == 0 {
			s.logger.Debug("fetch returned no orders", zap.String("group", group.Key.String()))
			continue
		}

		matches := make([]TriggerEvent, 0)
		for _, alert := range group.Alerts {
			order, ok := MatchOrder(alert, orders)
			if !ok {
				continue
			}
			matches = append(matches, TriggerEvent{Alert: alert, Order: order})
		}
		if len(matches) == 0 {
			continue
		}

		committed, err := s.commit(ctx, matches, orders)
		if err != nil {
			s.logger.Error("trigger commit failed", zap.String("group", group.Key.String()), zap.Error(err))
			commitErrs = append(commitErrs, fmt.Errorf("commit %s: %w", group.Key, err))
			continue
		}

		for _, event := range committed {
			s.notify(ctx, event)
		}
		report.Triggered = append(report.Triggered, committed...)
	}

	s.logger.Info(
		"scan complete",
		zap.Int("fetches", report.Fetches),
		zap.Int("failed_fetches", report.FailedFetches),
		zap.Int("triggered", len(report.Triggered)),
	)

	return report, errors.Join(commitErrs...)
}

// commit stamps matched alerts against the current stored set. Alerts that were
// removed, deactivated or moved to another group since the snapshot are left
// alone; the rest are matched again against orders under their current condition.
func (s *Scanner) commit(ctx context.Context, matches []TriggerEvent, orders []domain.Order) ([]TriggerEvent, error) {
	var committed []TriggerEvent
	err := s.book.Update(ctx, func(alerts []domain.Alert) ([]domain.Alert, error) {
		committed = committed[:0]
		positions := make(map[string]int, len(alerts))
		for i, alert := range alerts {
			positions[alert.ID] = i
		}

		at := s.now()
		for _, match := range matches {
			i, ok := positions[match.Alert.ID]
			if !ok || !alerts[i].Active || alerts[i].OwnerID != match.Alert.OwnerID || domain.KeyOf(alerts[i]) != domain.KeyOf(match.Alert) {
				s.logger.Debug("skip stale trigger", zap.String("alert_id", match.Alert.ID))
				continue
			}
			order, ok := MatchOrder(alerts[i], orders)
			if !ok {
				s.logger.Debug("skip trigger, condition changed", zap.String("alert_id", match.Alert.ID))
				continue
			}
			alerts[i].Trigger(at, order.Price)
			committed = append(committed, TriggerEvent{Alert: alerts[i], Order: order})
		}
		if len(committed) == 0 {
			return nil, ErrNoChange
		}
		return alerts, nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

func (s *Scanner) notify(ctx context.Context, event TriggerEvent) {
	s.logger.Info(
		"alert triggered",
		zap.String("alert_id", event.Alert.ID),
		zap.String("owner_id", event.Alert.OwnerID),
		zap.String("price", event.Order.Price.String()),
	)
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event.Alert.OwnerID, FormatTriggerMessage(event)); err != nil {
		s.logger.Warn("failed to send alert", zap.String("owner_id", event.Alert.OwnerID), zap.Error(err))
	}
}
