package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AlertInput is an alert as submitted by its owner, before validation.
type AlertInput struct {
	ID            string
	Exchange      string
	Side          string
	Asset         string
	Fiat          string
	TargetPrice   string
	MinAmount     string
	PaymentMethod string
	Recurring     bool
	Active        *bool
}

type AlertStats struct {
	Total  int
	Active int
	Owners int
}

type AlertUsecase struct {
	book        *AlertBook
	defaultFiat string
	newID       func() string
	now         func() time.Time
}

func NewAlertUsecase(book *AlertBook, defaultFiat string) *AlertUsecase {
	return &AlertUsecase{
		book:        book,
		defaultFiat: strings.ToUpper(strings.TrimSpace(defaultFiat)),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// ReplaceAlerts swaps the owner's whole alert set. Nothing is written unless every
// input is valid; other owners' alerts are untouched.
func (u *AlertUsecase) ReplaceAlerts(ctx context.Context, ownerID string, inputs []AlertInput) (int, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return 0, fmt.Errorf("%w: missing owner", domain.ErrInvalidAlert)
	}

	now := u.now()
	incoming := make([]domain.Alert, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		alert, err := u.buildAlert(ownerID, input, now)
		if err != nil {
			return 0, fmt.Errorf("alert %d: %w", i, err)
		}
		if _, dup := seen[alert.ID]; dup {
			return 0, fmt.Errorf("alert %d: %w: duplicate id %q", i, domain.ErrInvalidAlert, alert.ID)
		}
		seen[alert.ID] = struct{}{}
		incoming = append(incoming, alert)
	}

	err := u.book.Update(ctx, func(alerts []domain.Alert) ([]domain.Alert, error) {
		previous := make(map[string]domain.Alert)
		kept := make([]domain.Alert, 0, len(alerts)+len(incoming))
		for _, alert := range alerts {
			if alert.OwnerID == ownerID {
				previous[alert.ID] = alert
				continue
			}
			if _, taken := seen[alert.ID]; taken {
				return nil, fmt.Errorf("%w: id %q belongs to another owner", domain.ErrInvalidAlert, alert.ID)
			}
			kept = append(kept, alert)
		}
		for _, alert := range incoming {
			if old, ok := previous[alert.ID]; ok {
				alert.CreatedAt = old.CreatedAt
			}
			kept = append(kept, alert)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return len(incoming), nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, ownerID string) ([]domain.Alert, error) {
	alerts, err := u.book.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(alerts, func(alert domain.Alert, _ int) bool {
		return alert.OwnerID == ownerID
	}), nil
}

func (u *AlertUsecase) Stats(ctx context.Context) (AlertStats, error) {
	alerts, err := u.book.Snapshot(ctx)
	if err != nil {
		return AlertStats{}, err
	}
	owners := lo.Uniq(lo.Map(alerts, func(alert domain.Alert, _ int) string {
		return alert.OwnerID
	}))
	return AlertStats{
		Total: len(alerts),
		Active: lo.CountBy(alerts, func(alert domain.Alert) bool {
			return alert.Active
		}),
		Owners: len(owners),
	}, nil
}

func (u *AlertUsecase) buildAlert(ownerID string, input AlertInput, now time.Time) (domain.Alert, error) {
	exchange, err := domain.ParseExchange(input.Exchange)
	if err != nil {
		return domain.Alert{}, fmt.Errorf("%w: %v", domain.ErrInvalidAlert, err)
	}
	side, err := domain.ParseSide(input.Side)
	if err != nil {
		return domain.Alert{}, err
	}
	target, err := decimal.NewFromString(strings.TrimSpace(input.TargetPrice))
	if err != nil {
		return domain.Alert{}, fmt.Errorf("%w: target price %q", domain.ErrInvalidAlert, input.TargetPrice)
	}
	minAmount, err := domain.ParseOptionalAmount(input.MinAmount)
	if err != nil {
		return domain.Alert{}, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = u.newID()
	}
	fiat := strings.ToUpper(strings.TrimSpace(input.Fiat))
	if fiat == "" {
		fiat = u.defaultFiat
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	alert := domain.Alert{
		ID:            id,
		OwnerID:       ownerID,
		Exchange:      exchange,
		Side:          side,
		Asset:         strings.ToUpper(strings.TrimSpace(input.Asset)),
		Fiat:          fiat,
		TargetPrice:   target,
		MinAmount:     minAmount,
		PaymentMethod: domain.NormalizePaymentMethod(input.PaymentMethod),
		Recurring:     input.Recurring,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := alert.Validate(); err != nil {
		return domain.Alert{}, err
	}
	return alert, nil
}
