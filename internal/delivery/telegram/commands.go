package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/pipone-one/p2pminiapp/internal/usecase"
)

const HelpText = `Commands:
/start - welcome message
/help - show this help
/alerts - list your alerts
/status - scanner status

Alerts are created and edited in the Mini App. The bot messages you when a P2P offer reaches your target price.`

const maxMessageLen = 3800

var ErrInvalidChatID = errors.New("invalid chat id")

func ParseChatID(ownerID string) (int64, error) {
	trimmed := strings.TrimSpace(ownerID)
	if trimmed == "" {
		return 0, ErrInvalidChatID
	}
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChatID, ownerID)
	}
	return value, nil
}

func WelcomeText(miniAppURL string) string {
	text := "👋 Welcome to P2P Alerts!\n\nSet price alerts in the Mini App and I will message you when an offer matches."
	if miniAppURL != "" {
		text += "\n\nOpen the app: " + miniAppURL
	}
	return text + "\n\n" + HelpText
}

func FormatAlertList(alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return "No alerts yet. Create one in the Mini App."
	}

	var builder strings.Builder
	builder.WriteString("Your alerts:\n")
	for i, alert := range alerts {
		line := formatAlertLine(alert)
		if builder.Len()+len(line) > maxMessageLen {
			builder.WriteString(fmt.Sprintf("...and %d more", len(alerts)-i))
			break
		}
		builder.WriteString(line)
	}
	return builder.String()
}

func formatAlertLine(alert domain.Alert) string {
	status := "active"
	if !alert.Active {
		status = "paused"
		if alert.MatchedPrice != nil {
			status = "triggered at " + alert.MatchedPrice.String()
		}
	}
	filters := make([]string, 0, 2)
	if alert.MinAmount != nil {
		filters = append(filters, "min "+alert.MinAmount.String())
	}
	if alert.PaymentMethod != "" {
		filters = append(filters, alert.PaymentMethod)
	}
	suffix := ""
	if len(filters) > 0 {
		suffix = " (" + strings.Join(filters, ", ") + ")"
	}
	return fmt.Sprintf("[%s] %s %s %s/%s @ %s%s\n", status, alert.Exchange, alert.Side, alert.Asset, alert.Fiat, alert.TargetPrice.String(), suffix)
}

func FormatStatus(status usecase.SchedulerStatus, stats usecase.AlertStats) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Scanner: %s\n", status.State))
	builder.WriteString(fmt.Sprintf("Alerts: %d active of %d\n", stats.Active, stats.Total))
	builder.WriteString(fmt.Sprintf("Cycles: %d", status.Cycles))
	if last := status.LastCycle; last != nil {
		builder.WriteString(fmt.Sprintf("\nLast cycle: %d groups, %d triggered in %s",
			last.Report.Groups, len(last.Report.Triggered), last.Duration.Round(time.Millisecond)))
		if last.Err != "" {
			builder.WriteString("\nLast error: " + last.Err)
		}
	}
	return builder.String()
}
