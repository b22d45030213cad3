package exchange

import (
	"context"
	"fmt"

	"github.com/pipone-one/p2pminiapp/internal/domain"
)

type URLs struct {
	Binance string
	Bybit   string
	OKX     string
	MEXC    string
}

// Router sends each query to the adapter registered for its exchange.
type Router struct {
	sources map[domain.Exchange]domain.OrderSource
}

func NewRouter(sources map[domain.Exchange]domain.OrderSource) *Router {
	return &Router{sources: sources}
}

// NewDefaultRouter wires all four adapters onto one shared client.
func NewDefaultRouter(client *Client, urls URLs) *Router {
	return NewRouter(map[domain.Exchange]domain.OrderSource{
		domain.ExchangeBinance: NewBinance(client, orDefault(urls.Binance, DefaultBinanceURL)),
		domain.ExchangeBybit:   NewBybit(client, orDefault(urls.Bybit, DefaultBybitURL)),
		domain.ExchangeOKX:     NewOKX(client, orDefault(urls.OKX, DefaultOKXURL)),
		domain.ExchangeMEXC:    NewMEXC(client, orDefault(urls.MEXC, DefaultMEXCURL)),
	})
}

func (r *Router) FetchOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	source, ok := r.sources[query.Exchange]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownExchange, query.Exchange)
	}
	return source.FetchOrders(ctx, query)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
