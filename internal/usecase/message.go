package usecase

import (
	"fmt"
	"strings"

	"github.com/pipone-one/p2pminiapp/internal/domain"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// FormatTriggerMessage renders the Telegram (Markdown) text for a triggered alert.
func FormatTriggerMessage(event TriggerEvent) string {
	emoji := "🔴"
	action := "Sell"
	if event.Alert.Side == domain.SideBuy {
		emoji = "🟢"
		action = "Buy"
	}

	payments := "-"
	if len(event.Order.PaymentMethods) > 0 {
		payments = strings.Join(event.Order.PaymentMethods, ", ")
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s *Price Alert Triggered!*\n\n", emoji))
	builder.WriteString(fmt.Sprintf("Exchange: %s\n", event.Alert.Exchange))
	builder.WriteString(fmt.Sprintf("Action: %s %s/%s\n", action, markdownEscaper.Replace(event.Alert.Asset), markdownEscaper.Replace(event.Alert.Fiat)))
	builder.WriteString(fmt.Sprintf("Target Price: %s\n", event.Alert.TargetPrice.String()))
	builder.WriteString(fmt.Sprintf("Found Price: *%s*\n", event.Order.Price.String()))
	builder.WriteString(fmt.Sprintf("Limits: %s - %s\n", event.Order.MinAmount.String(), event.Order.MaxAmount.String()))
	builder.WriteString(fmt.Sprintf("Merchant: %s\n", markdownEscaper.Replace(event.Order.Merchant.Name)))
	builder.WriteString(fmt.Sprintf("Payment: %s\n\n", markdownEscaper.Replace(payments)))
	builder.WriteString("👉 Check app for details!")
	return builder.String()
}
