package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var errStoreDown = errors.New("store down")

type memoryStore struct {
	mu       sync.Mutex
	alerts   []domain.Alert
	saves    int
	failSave bool
	failLoad bool
}

func newMemoryStore(alerts ...domain.Alert) *memoryStore {
	return &memoryStore{alerts: append([]domain.Alert(nil), alerts...)}
}

func (s *memoryStore) LoadAll(ctx context.Context) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoad {
		return nil, errStoreDown
	}
	return append([]domain.Alert(nil), s.alerts...), nil
}

func (s *memoryStore) SaveAll(ctx context.Context, alerts []domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errStoreDown
	}
	s.saves++
	s.alerts = append([]domain.Alert(nil), alerts...)
	return nil
}

func (s *memoryStore) get(id string) domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, alert := range s.alerts {
		if alert.ID == id {
			return alert
		}
	}
	return domain.Alert{}
}

// funcSource records every query and answers through respond.
type funcSource struct {
	mu      sync.Mutex
	queries []domain.OrderQuery
	respond func(query domain.OrderQuery) ([]domain.Order, error)
}

func (s *funcSource) FetchOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.respond == nil {
		return nil, nil
	}
	return s.respond(query)
}

func (s *funcSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, ownerID string, text string) error {
	args := m.Called(ctx, ownerID, text)
	return args.Error(0)
}

type fixedRoutes int

func (r fixedRoutes) Count() int {
	return int(r)
}

// recordingSleeper never blocks; it keeps the requested durations.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	value := dec(s)
	return &value
}

func order(price string) domain.Order {
	return domain.Order{
		Price:     dec(price),
		MinAmount: dec("100"),
		MaxAmount: dec("100000"),
		Merchant:  domain.Merchant{Name: "merchant-" + price},
	}
}

func alertFor(id, owner string, side domain.Side, target string) domain.Alert {
	return domain.Alert{
		ID:          id,
		OwnerID:     owner,
		Exchange:    domain.ExchangeBinance,
		Side:        side,
		Asset:       "USDT",
		Fiat:        "UAH",
		TargetPrice: dec(target),
		Active:      true,
	}
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
