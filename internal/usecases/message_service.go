package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"gemini-relay-bot/internal/entities"
	"gemini-relay-bot/internal/interfaces"
)

// SystemInstruction is sent unchanged with every completion request.
const SystemInstruction = "You are a helpful assistant. Answer the user's message clearly and concisely."

const (
	fallbackReply    = "Sorry, an error occurred while contacting the language model. Please try again later."
	internalErrReply = "Sorry, something went wrong. Please try again later."
	emptyTextReply   = "Please send text for me to respond to."
	emptyModelReply  = "Model returned no text."
	exhaustedReply   = "You have exhausted your daily tokens. Please wait until they reset tomorrow or contact an admin to upgrade your plan."
	notAuthorized    = "You are not authorized to use this command."
)

// RelayStats are live counters for the operator status endpoint.
type RelayStats struct {
	MessagesHandled    int64 `json:"messages_handled"`
	RepliesSent        int64 `json:"replies_sent"`
	CompletionFailures int64 `json:"completion_failures"`
}

// MessageService relays user messages to the completion service and routes
// the reply back to the originating chat.
type MessageService struct {
	ai     interfaces.Completer
	chat   interfaces.Messenger
	users  interfaces.UserStore
	admins map[int64]bool
	log    zerolog.Logger

	handled    atomic.Int64
	sent       atomic.Int64
	aiFailures atomic.Int64
}

func NewMessageService(ai interfaces.Completer, chat interfaces.Messenger, users interfaces.UserStore, admins map[int64]bool, logger zerolog.Logger) *MessageService {
	if admins == nil {
		admins = map[int64]bool{}
	}
	return &MessageService{
		ai:     ai,
		chat:   chat,
		users:  users,
		admins: admins,
		log:    logger,
	}
}

// Stats returns a snapshot of the relay counters.
func (s *MessageService) Stats() RelayStats {
	return RelayStats{
		MessagesHandled:    s.handled.Load(),
		RepliesSent:        s.sent.Load(),
		CompletionFailures: s.aiFailures.Load(),
	}
}

// HandleMessage processes one plain text message: quota gate, one completion
// call, one reply. Completion failures of any kind are logged and masked
// behind a fixed apology.
func (s *MessageService) HandleMessage(ctx context.Context, msg entities.Message) error {
	s.handled.Add(1)

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return s.reply(msg.ChatID, emptyTextReply)
	}

	user, err := s.users.EnsureUser(ctx, msg.UserID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", msg.UserID).Msg("user store failed")
		return s.reply(msg.ChatID, internalErrReply)
	}

	inputTokens := EstimateTokens(text)
	s.log.Debug().Int64("user_id", msg.UserID).Int("input_tokens", inputTokens).Msg("estimated input tokens")

	if user.TokensRemaining <= 0 {
		return s.reply(msg.ChatID, exhaustedReply)
	}
	if user.TokensRemaining-inputTokens < MinOutputTokens {
		return s.reply(msg.ChatID, fmt.Sprintf(
			"Not enough tokens to process your request. You need at least %d tokens for a response. Your remaining tokens: %d. Consider upgrading your plan.",
			MinOutputTokens, user.TokensRemaining,
		))
	}

	maxOutput := user.TokensRemaining - inputTokens
	if maxOutput > MaxOutputTokens {
		maxOutput = MaxOutputTokens
	}

	s.chat.SendTyping(msg.ChatID)

	reply, err := s.ai.Complete(ctx, text, maxOutput)
	if err != nil {
		s.aiFailures.Add(1)
		s.log.Error().Err(err).Int64("user_id", msg.UserID).Msg("completion request failed")
		return s.reply(msg.ChatID, fallbackReply)
	}

	outputTokens := EstimateTokens(reply)
	if err := s.users.DeductTokens(ctx, msg.UserID, inputTokens+outputTokens); err != nil {
		s.log.Error().Err(err).Int64("user_id", msg.UserID).Msg("token deduction failed")
	}
	s.log.Info().
		Int64("user_id", msg.UserID).
		Int("input_tokens", inputTokens).
		Int("output_tokens", outputTokens).
		Msg("relayed message")

	if strings.TrimSpace(reply) == "" {
		return s.reply(msg.ChatID, emptyModelReply)
	}
	return s.reply(msg.ChatID, reply)
}

// Greet handles /start and /help.
func (s *MessageService) Greet(ctx context.Context, msg entities.Message) error {
	user, err := s.users.EnsureUser(ctx, msg.UserID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", msg.UserID).Msg("user store failed")
		return s.reply(msg.ChatID, internalErrReply)
	}

	name := msg.FirstName
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"Hello, %s!\n\nYou are on the '%s' plan. Daily tokens remaining: %d.\n\n"+
			"How to use:\n"+
			"- Send any message and I'll reply using Gemini.\n"+
			"- Commands: /balance to check tokens, /help for this message.\n\n"+
			"Upgrade plans: contact an admin.",
		name, user.Plan, user.TokensRemaining,
	)
	return s.reply(msg.ChatID, text)
}

// Balance handles /balance.
func (s *MessageService) Balance(ctx context.Context, msg entities.Message) error {
	user, err := s.users.EnsureUser(ctx, msg.UserID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", msg.UserID).Msg("user store failed")
		return s.reply(msg.ChatID, internalErrReply)
	}
	return s.reply(msg.ChatID, fmt.Sprintf("Plan: %s\nDaily tokens remaining: %d", user.Plan, user.TokensRemaining))
}

// SetPlan handles the admin-only /setplan <user_id> <plan> command. The
// target user is notified best-effort.
func (s *MessageService) SetPlan(ctx context.Context, msg entities.Message, args string) error {
	if !s.admins[msg.UserID] {
		return s.reply(msg.ChatID, notAuthorized)
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		return s.reply(msg.ChatID, "Usage: /setplan <user_id> <plan>\nPlans: "+strings.Join(entities.PlanNames(), ", "))
	}

	targetID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return s.reply(msg.ChatID, "Invalid user_id. It must be an integer Telegram user id.")
	}

	plan := strings.ToLower(fields[1])
	if !entities.KnownPlan(plan) {
		return s.reply(msg.ChatID, "Unknown plan. Available plans: "+strings.Join(entities.PlanNames(), ", "))
	}

	if err := s.users.SetPlan(ctx, targetID, plan); err != nil {
		s.log.Error().Err(err).Int64("target_id", targetID).Msg("set plan failed")
		return s.reply(msg.ChatID, "Failed to set plan.")
	}

	err = s.reply(msg.ChatID, fmt.Sprintf("Set user %d to plan '%s'. Tokens reset to daily allowance.", targetID, plan))

	if notifyErr := s.chat.SendMessage(targetID, fmt.Sprintf("An admin set your plan to '%s'. Your daily tokens have been reset.", plan)); notifyErr != nil {
		// user may not be reachable (hasn't started the bot or blocked it)
		s.log.Info().Err(notifyErr).Int64("target_id", targetID).Msg("could not notify user of plan change")
	}

	return err
}

// AdminStats handles the admin-only /stats command.
func (s *MessageService) AdminStats(ctx context.Context, msg entities.Message) error {
	if !s.admins[msg.UserID] {
		return s.reply(msg.ChatID, notAuthorized)
	}

	count, total, err := s.users.Stats(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("stats query failed")
		return s.reply(msg.ChatID, "Failed to fetch stats.")
	}
	return s.reply(msg.ChatID, fmt.Sprintf("Registered users: %d\nTotal tokens remaining across users: %d", count, total))
}

func (s *MessageService) reply(chatID int64, text string) error {
	if err := s.chat.SendMessage(chatID, text); err != nil {
		s.log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
		return err
	}
	s.sent.Add(1)
	return nil
}
