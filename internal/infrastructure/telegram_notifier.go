package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"whatsapp_crm/internal/entities"
)

// TelegramNotifier forwards high-intent leads to a staff chat.
type TelegramNotifier struct {
	Bot     *tgbotapi.BotAPI
	chatID  int64
	alertOn map[entities.Interest]bool
	log     *zap.Logger
}

// NewTelegramNotifier connects the bot. apiEndpoint may be empty for the public Bot API.
// timeout bounds every Bot API call, since the library does not take a context.
func NewTelegramNotifier(token, apiEndpoint string, chatID int64, timeout time.Duration, log *zap.Logger) (*TelegramNotifier, error) {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot token issue: %w", err)
	}
	log.Info("telegram lead alerts enabled", zap.String("bot", bot.Self.UserName), zap.Int64("chat_id", chatID))

	return &TelegramNotifier{
		Bot:    bot,
		chatID: chatID,
		alertOn: map[entities.Interest]bool{
			entities.InterestFees:      true,
			entities.InterestAdmission: true,
		},
		log: log,
	}, nil
}

// ShouldAlert reports whether leads of this interest are forwarded.
func (t *TelegramNotifier) ShouldAlert(interest entities.Interest) bool {
	return t.alertOn[interest]
}

// NotifyLead sends a short lead summary; other interests are skipped silently.
func (t *TelegramNotifier) NotifyLead(ctx context.Context, msg entities.Message) error {
	if !t.ShouldAlert(msg.Interest) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("🔔 New %s lead\n📱 %s\n💬 %s", msg.Interest, msg.Phone, msg.Body)
	if _, err := t.Bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}
