package infrastructure

import (
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram caps messages at 4096 characters; stay under it with headroom.
const maxTelegramMessage = 4000

// TelegramClient wraps the bot API for sending replies and chat actions.
type TelegramClient struct {
	Bot *tgbotapi.BotAPI
}

func NewTelegramClient(token string) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect bot: %w", err)
	}
	return &TelegramClient{Bot: bot}, nil
}

// SendMessage delivers text to a chat, splitting replies that exceed the
// Telegram message size limit.
func (t *TelegramClient) SendMessage(chatID int64, text string) error {
	for _, part := range splitMessage(text, maxTelegramMessage) {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := t.Bot.Send(msg); err != nil {
			return fmt.Errorf("telegram: send message: %w", err)
		}
	}
	return nil
}

// SendTyping shows the "typing" chat action. Failures are ignored; the
// action is purely cosmetic.
func (t *TelegramClient) SendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, _ = t.Bot.Request(action)
}

// BotName returns the connected bot's username.
func (t *TelegramClient) BotName() string {
	return t.Bot.Self.UserName
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	for len(text) > limit {
		// never cut a multi-byte rune in half
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		parts = append(parts, text)
	}
	return parts
}
