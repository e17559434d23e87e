package notify

import (
	"fmt"
	"unicode/utf8"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/pkg/logger"
)

// лимит Telegram на длину одного сообщения
const maxMessageLen = 4096

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

type sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram — пассивный нотифайер в чат оператора. Ошибки отправки только логируются.
type Telegram struct {
	bot    sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	for _, part := range split(msg, maxMessageLen) {
		if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, part)); err != nil {
			logger.Warn("notify: send to chat %d: %v", t.chatID, err)
			return
		}
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// split режет по рунам, чтобы не ломать UTF-8 на границе.
func split(msg string, limit int) []string {
	if utf8.RuneCountInString(msg) <= limit {
		return []string{msg}
	}
	var parts []string
	runes := []rune(msg)
	for len(runes) > limit {
		parts = append(parts, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// Stdout — заглушка без бота, всё уходит в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { logger.Info("notify: %s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
