package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultBinanceURL = "https://p2p.binance.com"
	DefaultBybitURL   = "https://api2.bybit.com"
	DefaultOKXURL     = "https://www.okx.com"
	DefaultMEXCURL    = "https://p2p.mexc.com"
)

const binanceOK = "000000"

var hundred = decimal.NewFromInt(100)

type Binance struct {
	client  *Client
	baseURL string
}

func NewBinance(client *Client, baseURL string) *Binance {
	return &Binance{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *Binance) FetchOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	payload := binanceSearchRequest{
		Fiat:      query.Fiat,
		Page:      1,
		Rows:      defaultRows,
		TradeType: strings.ToUpper(string(query.Side)),
		Asset:     query.Asset,
		Countries: []string{},
		PayTypes:  paymentFilter(query.PaymentMethod),
	}
	if query.MinAmount != nil {
		amount := query.MinAmount.String()
		payload.TransAmount = &amount
	}
	headers := map[string]string{
		"Origin":  "https://p2p.binance.com",
		"Referer": fmt.Sprintf("https://p2p.binance.com/en/trade/all-payments/%s?fiat=%s", query.Asset, query.Fiat),
	}

	var response binanceSearchResponse
	if err := b.client.postJSON(ctx, domain.ExchangeBinance, b.baseURL+"/bapi/c2c/v2/friendly/c2c/adv/search", headers, payload, &response); err != nil {
		return nil, err
	}
	if code := string(response.Code); code != "" && code != binanceOK {
		return nil, fmt.Errorf("%s error: %s %s", domain.ExchangeBinance, code, response.Message)
	}

	orders := make([]domain.Order, 0, len(response.Data))
	for _, item := range response.Data {
		if !item.Adv.Price.Valid {
			continue
		}
		methods := make([]string, 0, len(item.Adv.TradeMethods))
		for _, method := range item.Adv.TradeMethods {
			name := method.TradeMethodName
			if name == "" {
				name = method.Identifier
			}
			methods = append(methods, name)
		}
		orders = append(orders, domain.Order{
			Price:           item.Adv.Price.Decimal,
			MinAmount:       item.Adv.MinSingleTransAmount.OrZero(),
			MaxAmount:       item.Adv.MaxSingleTransAmount.OrZero(),
			AvailableAmount: item.Adv.SurplusAmount.OrZero(),
			Merchant: domain.Merchant{
				ID:             string(item.Advertiser.UserNo),
				Name:           item.Advertiser.NickName,
				Verified:       item.Advertiser.UserType == "merchant",
				Orders:         item.Advertiser.MonthOrderCount,
				CompletionRate: item.Advertiser.MonthFinishRate.OrZero().Mul(hundred),
			},
			PaymentMethods: methods,
		})
	}
	return orders, nil
}

type Bybit struct {
	client  *Client
	baseURL string
}

func NewBybit(client *Client, baseURL string) *Bybit {
	return &Bybit{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *Bybit) FetchOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	// side "1" lists makers selling, which is what a buyer takes.
	side := "0"
	if query.Side == domain.SideBuy {
		side = "1"
	}
	payload := bybitSearchRequest{
		TokenID:    query.Asset,
		CurrencyID: query.Fiat,
		Side:       side,
		Size:       strconv.Itoa(defaultRows),
		Page:       "1",
		Payment:    paymentFilter(query.PaymentMethod),
	}
	if query.MinAmount != nil {
		payload.Amount = query.MinAmount.String()
	}
	headers := map[string]string{
		"Origin":  "https://www.bybit.com",
		"Referer": "https://www.bybit.com/",
	}

	var response bybitSearchResponse
	if err := b.client.postJSON(ctx, domain.ExchangeBybit, b.baseURL+"/fiat/otc/item/online", headers, payload, &response); err != nil {
		return nil, err
	}
	if response.RetCode != 0 {
		return nil, fmt.Errorf("%s error: %d %s", domain.ExchangeBybit, response.RetCode, response.RetMsg)
	}
	if response.Result == nil {
		return nil, nil
	}

	orders := make([]domain.Order, 0, len(response.Result.Items))
	for _, item := range response.Result.Items {
		if !item.Price.Valid {
			continue
		}
		methods := make([]string, 0, len(item.Payments))
		for _, payment := range item.Payments {
			methods = append(methods, string(payment))
		}
		orders = append(orders, domain.Order{
			Price:           item.Price.Decimal,
			MinAmount:       item.MinAmount.OrZero(),
			MaxAmount:       item.MaxAmount.OrZero(),
			AvailableAmount: item.LastQuantity.OrZero(),
			Merchant: domain.Merchant{
				ID:             string(item.UserID),
				Name:           item.NickName,
				Verified:       len(item.AuthTag) > 0,
				Orders:         item.RecentOrderNum,
				CompletionRate: item.RecentExecuteRate.OrZero(),
			},
			PaymentMethods: methods,
		})
	}
	return orders, nil
}

type OKX struct {
	client  *Client
	baseURL string
	now     func() time.Time
}

func NewOKX(client *Client, baseURL string) *OKX {
	return &OKX{client: client, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (o *OKX) FetchOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	// OKX names the book by the maker side.
	side := "buy"
	if query.Side == domain.SideBuy {
		side = "sell"
	}
	paymentMethod := "all"
	if query.PaymentMethod != "" {
		paymentMethod = query.PaymentMethod
	}
	params := url.Values{}
	params.Set("t", strconv.FormatInt(o.now().UnixMilli(), 10))
	params.Set("quoteCurrency", strings.ToLower(query.Fiat))
	params.Set("baseCurrency", strings.ToLower(query.Asset))
	params.Set("side", side)
	params.Set("paymentMethod", paymentMethod)
	params.Set("userType", "all")
	params.Set("showTrade", "false")
	params.Set("showFollow", "false")
	params.Set("showAlreadyTraded", "false")
	params.Set("isAbleFilter", "false")
	if query.MinAmount != nil {
		params.Set("quoteMinAmountPerOrder", query.MinAmount.String())
	}

	var response okxBooksResponse
	if err := o.client.getJSON(ctx, domain.ExchangeOKX, o.baseURL+"/v3/c2c/tradingOrders/books?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}
	if code := string(response.Code); code != "" && code != "0" {
		return nil, fmt.Errorf("%s error: %s %s", domain.ExchangeOKX, code, response.Msg)
	}

	list := response.Data.Buy
	if side == "sell" {
		list = response.Data.Sell
	}
	orders := make([]domain.Order, 0, len(list))
	for _, item := range list {
		if !item.Price.Valid {
			continue
		}
		orders = append(orders, domain.Order{
			Price:           item.Price.Decimal,
			MinAmount:       item.QuoteMinAmountPerOrder.OrZero(),
			MaxAmount:       item.QuoteMaxAmountPerOrder.OrZero(),
			AvailableAmount: item.AvailableAmount.OrZero(),
			Merchant: domain.Merchant{
				ID:             string(item.PublicUserID),
				Name:           item.NickName,
				Verified:       item.MerchantID != "",
				Orders:         item.CompletedOrderQuantity,
				CompletionRate: item.CompletionRate.OrZero().Mul(hundred),
			},
			PaymentMethods: item.PaymentMethods,
		})
	}
	return orders, nil
}

type MEXC struct {
	client  *Client
	baseURL string
}

func NewMEXC(client *Client, baseURL string) *MEXC {
	return &MEXC{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *MEXC) FetchOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	tradeType := "BUY"
	if query.Side == domain.SideBuy {
		tradeType = "SELL"
	}
	payload := mexcAdsRequest{
		CoinName:  query.Asset,
		Currency:  query.Fiat,
		TradeType: tradeType,
		Page:      1,
		Rows:      defaultRows,
	}
	if query.PaymentMethod != "" {
		method := query.PaymentMethod
		payload.PayMethod = &method
	}
	if query.MinAmount != nil {
		amount := query.MinAmount.String()
		payload.Amount = &amount
	}

	var response mexcAdsResponse
	if err := m.client.postJSON(ctx, domain.ExchangeMEXC, m.baseURL+"/api/v1/market/ads", nil, payload, &response); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(response.Data))
	for _, item := range response.Data {
		if !item.Price.Valid {
			continue
		}
		methods := make([]string, 0)
		for _, name := range strings.Split(item.PayMethodName, ",") {
			if name = strings.TrimSpace(name); name != "" {
				methods = append(methods, name)
			}
		}
		orders = append(orders, domain.Order{
			Price:           item.Price.Decimal,
			MinAmount:       item.MinLimit.OrZero(),
			MaxAmount:       item.MaxLimit.OrZero(),
			AvailableAmount: item.AvailableQuantity.OrZero(),
			Merchant: domain.Merchant{
				ID:             string(item.UID),
				Name:           item.NickName,
				Verified:       item.Merchant == 1,
				Orders:         item.OrderCount,
				CompletionRate: item.FinishRate.OrZero().Mul(hundred),
			},
			PaymentMethods: methods,
		})
	}
	return orders, nil
}

func paymentFilter(method string) []string {
	if method == "" {
		return []string{}
	}
	return []string{method}
}
