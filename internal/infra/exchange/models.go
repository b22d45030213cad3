package exchange

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NullableDecimal decodes numbers sent either bare or quoted; exchanges mix both.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > 1 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if trimmed == "" {
		n.Valid = false
		return nil
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return err
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (n NullableDecimal) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Decimal.String())
}

func (n NullableDecimal) OrZero() decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// FlexString accepts a JSON string or number; used for ids that exchanges send either way.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return err
		}
		*s = FlexString(inner)
		return nil
	}
	*s = FlexString(trimmed)
	return nil
}

type binanceSearchRequest struct {
	Fiat              string   `json:"fiat"`
	Page              int      `json:"page"`
	Rows              int      `json:"rows"`
	TradeType         string   `json:"tradeType"`
	Asset             string   `json:"asset"`
	Countries         []string `json:"countries"`
	ProMerchantAds    bool     `json:"proMerchantAds"`
	ShieldMerchantAds bool     `json:"shieldMerchantAds"`
	PublisherType     *string  `json:"publisherType"`
	TransAmount       *string  `json:"transAmount"`
	PayTypes          []string `json:"payTypes"`
}

type binanceSearchResponse struct {
	Code    FlexString  `json:"code"`
	Message string      `json:"message"`
	Data    []binanceAd `json:"data"`
}

type binanceAd struct {
	Adv struct {
		AdvNo                FlexString      `json:"advNo"`
		Price                NullableDecimal `json:"price"`
		MinSingleTransAmount NullableDecimal `json:"minSingleTransAmount"`
		MaxSingleTransAmount NullableDecimal `json:"maxSingleTransAmount"`
		SurplusAmount        NullableDecimal `json:"surplusAmount"`
		TradeMethods         []struct {
			Identifier      string `json:"identifier"`
			TradeMethodName string `json:"tradeMethodName"`
		} `json:"tradeMethods"`
	} `json:"adv"`
	Advertiser struct {
		UserNo          FlexString      `json:"userNo"`
		NickName        string          `json:"nickName"`
		UserType        string          `json:"userType"`
		MonthOrderCount int             `json:"monthOrderCount"`
		MonthFinishRate NullableDecimal `json:"monthFinishRate"`
	} `json:"advertiser"`
}

type bybitSearchRequest struct {
	TokenID    string   `json:"tokenId"`
	CurrencyID string   `json:"currencyId"`
	Side       string   `json:"side"`
	Size       string   `json:"size"`
	Page       string   `json:"page"`
	Amount     string   `json:"amount"`
	Payment    []string `json:"payment"`
}

type bybitSearchResponse struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	Result  *struct {
		Count int        `json:"count"`
		Items []bybitAd `json:"items"`
	} `json:"result"`
}

type bybitAd struct {
	ID                FlexString      `json:"id"`
	UserID            FlexString      `json:"userId"`
	NickName          string          `json:"nickName"`
	Price             NullableDecimal `json:"price"`
	MinAmount         NullableDecimal `json:"minAmount"`
	MaxAmount         NullableDecimal `json:"maxAmount"`
	LastQuantity      NullableDecimal `json:"lastQuantity"`
	Payments          []FlexString    `json:"payments"`
	RecentOrderNum    int             `json:"recentOrderNum"`
	RecentExecuteRate NullableDecimal `json:"recentExecuteRate"`
	AuthTag           []string        `json:"authTag"`
}

type okxBooksResponse struct {
	Code FlexString `json:"code"`
	Msg  string     `json:"msg"`
	Data struct {
		Buy  []okxAd `json:"buy"`
		Sell []okxAd `json:"sell"`
	} `json:"data"`
}

type okxAd struct {
	ID                     FlexString      `json:"id"`
	PublicUserID           FlexString      `json:"publicUserId"`
	NickName               string          `json:"nickName"`
	MerchantID             string          `json:"merchantId"`
	Price                  NullableDecimal `json:"price"`
	AvailableAmount        NullableDecimal `json:"availableAmount"`
	QuoteMinAmountPerOrder NullableDecimal `json:"quoteMinAmountPerOrder"`
	QuoteMaxAmountPerOrder NullableDecimal `json:"quoteMaxAmountPerOrder"`
	PaymentMethods         []string        `json:"paymentMethods"`
	CompletedOrderQuantity int             `json:"completedOrderQuantity"`
	CompletionRate         NullableDecimal `json:"completionRate"`
}

type mexcAdsRequest struct {
	CoinName  string  `json:"coinName"`
	Currency  string  `json:"currency"`
	TradeType string  `json:"tradeType"`
	Page      int     `json:"page"`
	Rows      int     `json:"rows"`
	PayMethod *string `json:"payMethod"`
	Amount    *string `json:"amount,omitempty"`
}

type mexcAdsResponse struct {
	Code FlexString `json:"code"`
	Msg  string     `json:"msg"`
	Data []mexcAd   `json:"data"`
}

type mexcAd struct {
	AdID              FlexString      `json:"adId"`
	UID               FlexString      `json:"uid"`
	NickName          string          `json:"nickName"`
	Merchant          int             `json:"merchant"`
	OrderCount        int             `json:"orderCount"`
	FinishRate        NullableDecimal `json:"finishRate"`
	Price             NullableDecimal `json:"price"`
	MinLimit          NullableDecimal `json:"minLimit"`
	MaxLimit          NullableDecimal `json:"maxLimit"`
	AvailableQuantity NullableDecimal `json:"availableQuantity"`
	PayMethodName     string          `json:"payMethodName"`
}
