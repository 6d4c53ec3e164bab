// Package router maps inbound chat commands and button callbacks to queue
// engine operations and renders the replies. It holds no state of its own;
// everything it touches lives in the registry and the engine.
package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"turntable/internal/logging"
	"turntable/internal/playback"
	"turntable/internal/registry"
	"turntable/internal/telegram"
)

// Sender is the outbound half of the transport. Satisfied by
// *telegram.Client; tests substitute a recorder.
type Sender interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error)
	EditMessageText(ctx context.Context, params telegram.EditMessageTextParams) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

const playNowPrefix = "playnow:"

// Router dispatches updates to the queue engine.
type Router struct {
	registry *registry.Registry
	engine   *playback.Engine
	sender   Sender
	logger   *slog.Logger
}

// New wires a router.
func New(reg *registry.Registry, engine *playback.Engine, sender Sender, logger *slog.Logger) *Router {
	return &Router{
		registry: reg,
		engine:   engine,
		sender:   sender,
		logger:   logging.NewComponentLogger(logger, "router"),
	}
}

// HandleUpdate routes one inbound update. It never panics the caller's loop;
// unknown or malformed input is ignored or answered with a notice.
func (r *Router) HandleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, *update.CallbackQuery)
	case update.Message != nil:
		r.handleMessage(ctx, *update.Message)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg telegram.Message) {
	command, arg := parseCommand(msg.Text)
	if command == "" {
		return
	}

	chatID := msg.Chat.ID
	addedBy := ""
	if msg.From != nil {
		addedBy = msg.From.DisplayName()
	}

	switch command {
	case "start", "help":
		r.reply(ctx, chatID, helpText)
	case "add":
		r.handleAdd(ctx, chatID, arg, addedBy)
	case "play":
		r.handlePlay(ctx, chatID)
	case "skip":
		r.handleSkip(ctx, chatID)
	case "stop":
		r.handleStop(ctx, chatID)
	case "queue":
		r.handleQueue(ctx, chatID)
	default:
		// Not ours; stay quiet in group chats.
	}
}

func (r *Router) handleAdd(ctx context.Context, chatID int64, link, addedBy string) {
	link = strings.TrimSpace(link)
	if link == "" {
		r.reply(ctx, chatID, "Usage: /add &lt;link&gt;")
		return
	}

	state := r.registry.GetOrCreate(chatID)
	result, err := r.engine.Add(ctx, state, link, addedBy)
	switch {
	case errors.Is(err, playback.ErrInvalidLink):
		r.reply(ctx, chatID, "That doesn't look like a valid link.")
		return
	case errors.Is(err, playback.ErrDuplicate):
		r.reply(ctx, chatID, "That link is already in the queue.")
		return
	case err != nil:
		r.logger.Error("add failed", logging.ChatID(chatID), logging.Error(err))
		return
	}

	params := telegram.SendMessageParams{
		ChatID:    chatID,
		Text:      formatAdded(result),
		ParseMode: telegram.ParseModeHTML,
	}
	if result.OfferPlay {
		params.ReplyMarkup = &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{
				{{Text: "Play now", Data: playNowPrefix + result.Track.ID}},
			},
		}
	}
	r.send(ctx, params)
}

func (r *Router) handlePlay(ctx context.Context, chatID int64) {
	state := r.registry.GetOrCreate(chatID)
	result := r.engine.Play(ctx, state)
	r.reply(ctx, chatID, formatPlay(result))
}

func (r *Router) handleSkip(ctx context.Context, chatID int64) {
	state := r.registry.GetOrCreate(chatID)
	result, err := r.engine.Skip(ctx, state)
	if errors.Is(err, playback.ErrNothingPlaying) {
		r.reply(ctx, chatID, "Nothing is playing right now.")
		return
	}
	r.reply(ctx, chatID, formatSkip(result))
}

func (r *Router) handleStop(ctx context.Context, chatID int64) {
	state := r.registry.GetOrCreate(chatID)
	r.engine.Stop(ctx, state)
	r.reply(ctx, chatID, "Stopped playback and cleared the queue.")
}

func (r *Router) handleQueue(ctx context.Context, chatID int64) {
	state := r.registry.GetOrCreate(chatID)
	view := r.engine.Inspect(state)
	r.reply(ctx, chatID, formatView(view))
}

// handleCallback services the "Play now" button attached to first adds.
func (r *Router) handleCallback(ctx context.Context, callback telegram.CallbackQuery) {
	if !strings.HasPrefix(callback.Data, playNowPrefix) {
		r.answer(ctx, callback.ID, "")
		return
	}
	if callback.Message == nil {
		r.answer(ctx, callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID
	trackID := strings.TrimPrefix(callback.Data, playNowPrefix)

	state := r.registry.GetOrCreate(chatID)
	result := r.engine.Play(ctx, state)

	switch result.Outcome {
	case playback.PlayStarted:
		r.answer(ctx, callback.ID, "")
		// Replace the prompt so the button disappears.
		edit := telegram.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: callback.Message.MessageID,
			Text:      formatNowPlaying(*result.Track),
			ParseMode: telegram.ParseModeHTML,
		}
		if err := r.sender.EditMessageText(ctx, edit); err != nil {
			r.logger.Warn("edit prompt failed", logging.ChatID(chatID), logging.Error(err))
		}
		if result.Track.ID != trackID {
			r.logger.Debug("play-now button raced another track",
				logging.ChatID(chatID), logging.String("expected", trackID))
		}
	case playback.PlayAlreadyPlaying:
		r.answer(ctx, callback.ID, "Already playing.")
	case playback.PlayQueueEmpty:
		r.answer(ctx, callback.ID, "That track is gone; the queue is empty.")
	}
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	r.send(ctx, telegram.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: telegram.ParseModeHTML,
	})
}

func (r *Router) send(ctx context.Context, params telegram.SendMessageParams) {
	if _, err := r.sender.SendMessage(ctx, params); err != nil {
		r.logger.Warn("send failed", logging.ChatID(params.ChatID), logging.Error(err))
	}
}

func (r *Router) answer(ctx context.Context, callbackID, text string) {
	if err := r.sender.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		r.logger.Warn("answer callback failed", logging.Error(err))
	}
}

// parseCommand extracts a bot command and its argument from message text.
// "/add@turntable_bot https://x" yields ("add", "https://x"). Non-command
// text yields an empty command.
func parseCommand(text string) (command, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	rest := text[1:]
	if idx := strings.IndexAny(rest, " \t\n"); idx >= 0 {
		command, arg = rest[:idx], strings.TrimSpace(rest[idx+1:])
	} else {
		command = rest
	}
	// Group chats address commands as /cmd@botname.
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), arg
}
