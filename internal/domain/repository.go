package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// AlertStore persists the full alert set. Writes replace everything.
type AlertStore interface {
	LoadAll(ctx context.Context) ([]Alert, error)
	SaveAll(ctx context.Context, alerts []Alert) error
}
