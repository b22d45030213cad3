package usecase

import (
	"fmt"
	"testing"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchOrderPrice(t *testing.T) {
	testCases := []struct {
		name   string
		side   domain.Side
		target string
		price  string
		want   bool
	}{
		{name: "buy below target", side: domain.SideBuy, target: "42.50", price: "40.00", want: true},
		{name: "buy equal target", side: domain.SideBuy, target: "42.50", price: "42.50", want: true},
		{name: "buy above target", side: domain.SideBuy, target: "42.50", price: "45.00", want: false},
		{name: "sell above target", side: domain.SideSell, target: "42.50", price: "45.00", want: true},
		{name: "sell equal target", side: domain.SideSell, target: "42.50", price: "42.5", want: true},
		{name: "sell below target", side: domain.SideSell, target: "42.50", price: "40.00", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alert := alertFor("a", "o", tc.side, tc.target)
			_, ok := MatchOrder(alert, []domain.Order{order(tc.price)})
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestMatchOrderAmount(t *testing.T) {
	alert := alertFor("a", "o", domain.SideBuy, "50")
	alert.MinAmount = decPtr("1500")

	outside := order("40")
	outside.MinAmount, outside.MaxAmount = dec("2000"), dec("5000")
	_, ok := MatchOrder(alert, []domain.Order{outside})
	assert.False(t, ok)

	inside := order("40")
	inside.MinAmount, inside.MaxAmount = dec("1000"), dec("2000")
	_, ok = MatchOrder(alert, []domain.Order{inside})
	assert.True(t, ok)

	edge := order("40")
	edge.MinAmount, edge.MaxAmount = dec("1500"), dec("1500")
	_, ok = MatchOrder(alert, []domain.Order{edge})
	assert.True(t, ok, "range bounds are inclusive")
}

func TestMatchOrderFirstMatchWins(t *testing.T) {
	alert := alertFor("a", "o", domain.SideBuy, "42.00")
	orders := []domain.Order{order("43.00"), order("41.50"), order("40.00")}

	matched, ok := MatchOrder(alert, orders)

	require.True(t, ok)
	assert.Equal(t, "41.5", matched.Price.String())
}

func TestMatchOrderNoAmountFilterIgnoresLimits(t *testing.T) {
	alert := alertFor("a", "o", domain.SideBuy, "42.00")
	tiny := order("41")
	tiny.MinAmount, tiny.MaxAmount = dec("1"), dec("2")

	_, ok := MatchOrder(alert, []domain.Order{tiny})
	assert.True(t, ok)
}

func TestGroupAlertsSingleKey(t *testing.T) {
	alerts := make([]domain.Alert, 0, 1000)
	for i := 0; i < 1000; i++ {
		alerts = append(alerts, alertFor(fmt.Sprintf("a%d", i), "o", domain.SideBuy, "42"))
	}

	groups := GroupAlerts(alerts)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Alerts, 1000)
	assert.Equal(t, "a0", groups[0].Alerts[0].ID)
	assert.Equal(t, "a999", groups[0].Alerts[999].ID)
}

func TestGroupAlertsSkipsInactiveAndKeepsFirstSeenOrder(t *testing.T) {
	sell := alertFor("sell", "o", domain.SideSell, "40")
	buy := alertFor("buy", "o", domain.SideBuy, "40")
	inactive := alertFor("off", "o", domain.SideBuy, "40")
	inactive.Exchange = domain.ExchangeMEXC
	inactive.Active = false
	bybit := alertFor("bybit", "o", domain.SideBuy, "40")
	bybit.Exchange = domain.ExchangeBybit
	buy2 := alertFor("buy2", "p", domain.SideBuy, "41")

	groups := GroupAlerts([]domain.Alert{sell, buy, inactive, bybit, buy2})

	require.Len(t, groups, 3)
	assert.Equal(t, domain.SideSell, groups[0].Key.Side)
	assert.Equal(t, domain.SideBuy, groups[1].Key.Side)
	assert.Equal(t, domain.ExchangeBinance, groups[1].Key.Exchange)
	assert.Equal(t, []string{"buy", "buy2"}, []string{groups[1].Alerts[0].ID, groups[1].Alerts[1].ID})
	assert.Equal(t, domain.ExchangeBybit, groups[2].Key.Exchange)
}

func TestGroupAlertsAnyPaymentNeverMergesWithSpecific(t *testing.T) {
	anyMethod := alertFor("any", "o", domain.SideBuy, "40")
	mono := alertFor("mono", "o", domain.SideBuy, "40")
	mono.PaymentMethod = "Monobank"

	groups := GroupAlerts([]domain.Alert{anyMethod, mono})

	require.Len(t, groups, 2)
	assert.Equal(t, "", groups[0].Key.PaymentMethod)
	assert.Equal(t, "Monobank", groups[1].Key.PaymentMethod)
}

func TestGroupAlertsEmpty(t *testing.T) {
	assert.Empty(t, GroupAlerts(nil))
}
