package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/pipone-one/p2pminiapp/internal/domain"
)

// ErrNoChange tells AlertBook.Update to skip the save.
var ErrNoChange = errors.New("no change")

// AlertBook serializes every load-mutate-save cycle on the alert store.
// Owner replacements and trigger stamping both go through Update.
type AlertBook struct {
	store domain.AlertStore
	mu    sync.Mutex
}

func NewAlertBook(store domain.AlertStore) *AlertBook {
	return &AlertBook{store: store}
}

func (b *AlertBook) Snapshot(ctx context.Context) ([]domain.Alert, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.LoadAll(ctx)
}

func (b *AlertBook) Update(ctx context.Context, mutate func(alerts []domain.Alert) ([]domain.Alert, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	alerts, err := b.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	next, err := mutate(alerts)
	if err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return b.store.SaveAll(ctx, next)
}
