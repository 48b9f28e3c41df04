package interfaces

import (
	"context"

	"gemini-relay-bot/internal/entities"
)

// Completer generates a reply for a single user prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

// Messenger delivers text back to a chat.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	SendTyping(chatID int64)
}

// UserStore is the registry of users, plans and daily token budgets.
type UserStore interface {
	// EnsureUser creates the user on first contact and applies the daily
	// reset before returning the current record.
	EnsureUser(ctx context.Context, userID int64) (entities.User, error)
	SetPlan(ctx context.Context, userID int64, plan string) error
	DeductTokens(ctx context.Context, userID int64, used int) error
	Stats(ctx context.Context) (users int, tokensRemaining int64, err error)
}
