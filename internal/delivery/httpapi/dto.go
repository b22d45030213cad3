package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pipone-one/p2pminiapp/internal/usecase"
)

// flexString holds a JSON string, number or bool as text; the Mini App is loose about types.
type flexString struct {
	value string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = flexString{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return err
		}
		*f = flexString{value: inner}
		return nil
	}
	*f = flexString{value: string(trimmed)}
	return nil
}

func (f flexString) String() string {
	return f.value
}

type syncAlertsRequest struct {
	UserID flexString      `json:"userId"`
	Alerts []alertPayload `json:"alerts"`
}

type alertPayload struct {
	ID            flexString `json:"id"`
	Exchange      string     `json:"exchange"`
	Type          string     `json:"type"`
	Side          string     `json:"side"`
	Crypto        string     `json:"crypto"`
	Asset         string     `json:"asset"`
	Fiat          string     `json:"fiat"`
	Pair          string     `json:"pair"`
	Price         flexString `json:"price"`
	TargetPrice   flexString `json:"targetPrice"`
	Amount        flexString `json:"amount"`
	MinAmount     flexString `json:"minAmount"`
	PaymentMethod flexString `json:"paymentMethod"`
	Recurring     bool       `json:"recurring"`
	Active        *bool      `json:"active"`
}

func (p alertPayload) toInput() usecase.AlertInput {
	asset := firstNonEmpty(p.Crypto, p.Asset)
	fiat := p.Fiat
	// pairs arrive as FIAT/ASSET, e.g. UAH/USDT
	if parts := strings.Split(p.Pair, "/"); len(parts) == 2 {
		fiat = firstNonEmpty(fiat, parts[0])
		asset = firstNonEmpty(asset, parts[1])
	}
	return usecase.AlertInput{
		ID:            p.ID.String(),
		Exchange:      p.Exchange,
		Side:          firstNonEmpty(p.Type, p.Side),
		Asset:         asset,
		Fiat:          fiat,
		TargetPrice:   firstNonEmpty(p.Price.String(), p.TargetPrice.String()),
		MinAmount:     firstNonEmpty(p.Amount.String(), p.MinAmount.String()),
		PaymentMethod: p.PaymentMethod.String(),
		Recurring:     p.Recurring,
		Active:        p.Active,
	}
}

type statsResponse struct {
	Uptime       string `json:"uptime"`
	Alerts       int    `json:"alerts"`
	ActiveAlerts int    `json:"activeAlerts"`
	Users        int    `json:"users"`
	Proxies      int    `json:"proxies"`
	Status       string `json:"status"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
