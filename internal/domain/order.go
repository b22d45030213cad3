package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Merchant struct {
	ID             string
	Name           string
	Verified       bool
	Orders         int
	CompletionRate decimal.Decimal
}

// Order is one advertisement from an exchange book. It is fetched fresh every cycle.
type Order struct {
	Price           decimal.Decimal
	MinAmount       decimal.Decimal
	MaxAmount       decimal.Decimal
	AvailableAmount decimal.Decimal
	Merchant        Merchant
	PaymentMethods  []string
}

type OrderQuery struct {
	Exchange      Exchange
	Side          Side
	Asset         string
	Fiat          string
	MinAmount     *decimal.Decimal
	PaymentMethod string
}

type OrderSource interface {
	FetchOrders(ctx context.Context, query OrderQuery) ([]Order, error)
}

// RouteCounter reports how many egress routes are available for pacing.
type RouteCounter interface {
	Count() int
}

type GroupKey struct {
	Exchange      Exchange
	Side          Side
	Asset         string
	Fiat          string
	PaymentMethod string
}

func (k GroupKey) String() string {
	return string(k.Exchange) + "|" + string(k.Side) + "|" + k.Asset + "|" + k.Fiat + "|" + k.PaymentMethod
}

func (k GroupKey) Query() OrderQuery {
	return OrderQuery{
		Exchange:      k.Exchange,
		Side:          k.Side,
		Asset:         k.Asset,
		Fiat:          k.Fiat,
		PaymentMethod: k.PaymentMethod,
	}
}

// ScanGroup lives for one scan cycle only.
type ScanGroup struct {
	Key    GroupKey
	Alerts []Alert
}

func KeyOf(alert Alert) GroupKey {
	return GroupKey{
		Exchange:      alert.Exchange,
		Side:          alert.Side,
		Asset:         alert.Asset,
		Fiat:          alert.Fiat,
		PaymentMethod: alert.PaymentMethod,
	}
}
