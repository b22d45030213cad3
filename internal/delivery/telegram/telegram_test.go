package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/pipone-one/p2pminiapp/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type stubAlerts struct {
	alerts []domain.Alert
	stats  usecase.AlertStats
	err    error
	owner  string
}

func (s *stubAlerts) ListAlerts(_ context.Context, ownerID string) ([]domain.Alert, error) {
	s.owner = ownerID
	return s.alerts, s.err
}

func (s *stubAlerts) Stats(context.Context) (usecase.AlertStats, error) {
	return s.stats, s.err
}

type stubStatus usecase.SchedulerStatus

func (s stubStatus) Status() usecase.SchedulerStatus {
	return usecase.SchedulerStatus(s)
}

func commandUpdate(text string, userID int64) tgbotapi.Update {
	command := text
	for i, r := range text {
		if r == ' ' {
			command = text[:i]
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: userID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}}
}

func sentText(t *testing.T, sender *mockSender) string {
	t.Helper()
	require.Len(t, sender.Calls, 1)
	msg, ok := sender.Calls[0].Arguments.Get(0).(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg.Text
}

func TestParseChatID(t *testing.T) {
	id, err := ParseChatID(" 123456789 ")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)

	_, err = ParseChatID("")
	assert.ErrorIs(t, err, ErrInvalidChatID)
	_, err = ParseChatID("user-1")
	assert.ErrorIs(t, err, ErrInvalidChatID)
}

func TestNotifierSendsMarkdown(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(nil)

	err := NewNotifier(sender, zap.NewNop()).Notify(context.Background(), "42", "*hi*")
	require.NoError(t, err)

	msg := sender.Calls[0].Arguments.Get(0).(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Equal(t, "*hi*", msg.Text)
}

func TestNotifierReturnsFailures(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(errors.New("forbidden"))
	notifier := NewNotifier(sender, zap.NewNop())

	assert.ErrorContains(t, notifier.Notify(context.Background(), "42", "x"), "forbidden")
	assert.ErrorIs(t, notifier.Notify(context.Background(), "abc", "x"), ErrInvalidChatID)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestLogNotifierDrops(t *testing.T) {
	assert.NoError(t, NewLogNotifier(zap.NewNop()).Notify(context.Background(), "1", "x"))
}

func TestHandleStart(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(nil)
	handlers := NewHandlers(&stubAlerts{}, stubStatus{}, "https://t.me/app", zap.NewNop())

	handlers.HandleUpdate(context.Background(), sender, commandUpdate("/start", 7))

	text := sentText(t, sender)
	assert.Contains(t, text, "Welcome")
	assert.Contains(t, text, "https://t.me/app")
}

func TestHandleAlertsUsesSenderAsOwner(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(nil)
	matched := decimal.RequireFromString("41.2")
	alerts := &stubAlerts{alerts: []domain.Alert{
		{Exchange: domain.ExchangeBybit, Side: domain.SideBuy, Asset: "USDT", Fiat: "UAH", TargetPrice: decimal.NewFromInt(41), Active: true, PaymentMethod: "Monobank"},
		{Exchange: domain.ExchangeOKX, Side: domain.SideSell, Asset: "USDT", Fiat: "UAH", TargetPrice: decimal.NewFromInt(42), MatchedPrice: &matched},
	}}
	handlers := NewHandlers(alerts, stubStatus{}, "", zap.NewNop())

	handlers.HandleUpdate(context.Background(), sender, commandUpdate("/alerts", 99))

	assert.Equal(t, "99", alerts.owner)
	text := sentText(t, sender)
	assert.Contains(t, text, "[active] Bybit buy USDT/UAH @ 41 (Monobank)")
	assert.Contains(t, text, "[triggered at 41.2] OKX sell USDT/UAH @ 42")
}

func TestHandleStatus(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(nil)
	status := stubStatus{
		State:  usecase.StateScanning,
		Cycles: 3,
		LastCycle: &usecase.CycleStats{
			Duration: 1500 * time.Millisecond,
			Report:   usecase.ScanReport{Groups: 2},
		},
	}
	handlers := NewHandlers(&stubAlerts{stats: usecase.AlertStats{Total: 5, Active: 4}}, status, "", zap.NewNop())

	handlers.HandleUpdate(context.Background(), sender, commandUpdate("/status", 1))

	text := sentText(t, sender)
	assert.Contains(t, text, "Scanner: Scanning")
	assert.Contains(t, text, "Alerts: 4 active of 5")
	assert.Contains(t, text, "Last cycle: 2 groups, 0 triggered in 1.5s")
}

func TestHandleIgnoresPlainText(t *testing.T) {
	sender := &mockSender{}
	handlers := NewHandlers(&stubAlerts{}, stubStatus{}, "", zap.NewNop())

	handlers.HandleUpdate(context.Background(), sender, tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "hello", From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1},
	}})

	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestFormatAlertListEmpty(t *testing.T) {
	assert.Contains(t, FormatAlertList(nil), "No alerts yet")
}
