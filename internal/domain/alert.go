package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAlert    = errors.New("invalid alert")
	ErrUnknownExchange = errors.New("unknown exchange")
)

// AnyValue is the client-side placeholder for "no filter" on amount and payment method.
const AnyValue = "Any"

type Exchange string

const (
	ExchangeBinance Exchange = "Binance"
	ExchangeBybit   Exchange = "Bybit"
	ExchangeOKX     Exchange = "OKX"
	ExchangeMEXC    Exchange = "MEXC"
)

var Exchanges = []Exchange{ExchangeBinance, ExchangeBybit, ExchangeOKX, ExchangeMEXC}

func ParseExchange(input string) (Exchange, error) {
	trimmed := strings.TrimSpace(input)
	for _, exchange := range Exchanges {
		if strings.EqualFold(string(exchange), trimmed) {
			return exchange, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExchange, input)
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func ParseSide(input string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: side %q", ErrInvalidAlert, input)
	}
}

// Alert is a standing price condition owned by a single user.
// MinAmount == nil and PaymentMethod == "" both mean "any".
type Alert struct {
	ID              string
	OwnerID         string
	Exchange        Exchange
	Side            Side
	Asset           string
	Fiat            string
	TargetPrice     decimal.Decimal
	MinAmount       *decimal.Decimal
	PaymentMethod   string
	Recurring       bool
	Active          bool
	LastTriggeredAt *time.Time
	MatchedPrice    *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a Alert) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAlert)
	}
	if strings.TrimSpace(a.OwnerID) == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidAlert)
	}
	if _, err := ParseExchange(string(a.Exchange)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}
	if a.Side != SideBuy && a.Side != SideSell {
		return fmt.Errorf("%w: side %q", ErrInvalidAlert, a.Side)
	}
	if strings.TrimSpace(a.Asset) == "" {
		return fmt.Errorf("%w: missing asset", ErrInvalidAlert)
	}
	if strings.TrimSpace(a.Fiat) == "" {
		return fmt.Errorf("%w: missing fiat", ErrInvalidAlert)
	}
	if !a.TargetPrice.IsPositive() {
		return fmt.Errorf("%w: target price must be positive", ErrInvalidAlert)
	}
	if a.MinAmount != nil && a.MinAmount.IsNegative() {
		return fmt.Errorf("%w: negative min amount", ErrInvalidAlert)
	}
	return nil
}

// Trigger deactivates the alert and stamps the match.
func (a *Alert) Trigger(at time.Time, price decimal.Decimal) {
	a.Active = false
	stamped := at
	a.LastTriggeredAt = &stamped
	matched := price
	a.MatchedPrice = &matched
	a.UpdatedAt = at
}

// NormalizePaymentMethod maps "Any" and blanks to the empty "any" marker.
func NormalizePaymentMethod(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, AnyValue) {
		return ""
	}
	return trimmed
}

// ParseOptionalAmount returns nil for "", "Any" and "null".
func ParseOptionalAmount(input string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.EqualFold(trimmed, AnyValue) || trimmed == "null" {
		return nil, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q", ErrInvalidAlert, input)
	}
	return &value, nil
}
