package usecase

import (
	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// GroupAlerts partitions active alerts by exact fetch key. Groups keep first-seen
// order and alerts keep list order, so a scan is deterministic for a given set.
func GroupAlerts(alerts []domain.Alert) []domain.ScanGroup {
	active := lo.Filter(alerts, func(alert domain.Alert, _ int) bool {
		return alert.Active
	})

	index := make(map[domain.GroupKey]int)
	groups := make([]domain.ScanGroup, 0)
	for _, alert := range active {
		key := domain.KeyOf(alert)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.ScanGroup{Key: key})
		}
		groups[i].Alerts = append(groups[i].Alerts, alert)
	}
	return groups
}

// MatchOrder returns the first order, in adapter order, that satisfies the alert.
// It is not the best price on purpose.
func MatchOrder(alert domain.Alert, orders []domain.Order) (domain.Order, bool) {
	for _, order := range orders {
		if !priceSatisfied(alert.Side, order.Price, alert.TargetPrice) {
			continue
		}
		if !amountSatisfied(alert.MinAmount, order) {
			continue
		}
		return order, true
	}
	return domain.Order{}, false
}

func priceSatisfied(side domain.Side, price, target decimal.Decimal) bool {
	cmp := price.Cmp(target)
	if side == domain.SideBuy {
		return cmp <= 0
	}
	return cmp >= 0
}

func amountSatisfied(amount *decimal.Decimal, order domain.Order) bool {
	if amount == nil {
		return true
	}
	return amount.GreaterThanOrEqual(order.MinAmount) && amount.LessThanOrEqual(order.MaxAmount)
}
