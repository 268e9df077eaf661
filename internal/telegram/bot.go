// Package telegram connects the conversation engine to the Telegram Bot API
// over long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/convo"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/ledger"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/metrics"
)

const welcomeText = `Hello! I take Preetos orders right here in chat. 🧀

Just tell me what you want, English or Filipino both work:
  "2 cheese pouches and 1 bbq tub for Maria, gcash"
  "gusto ko po ng dalawang sour cream tub"

Flavors: Cheese, Sour Cream, BBQ, Original
Sizes: pouch 100g ₱150 · tub 200g ₱290

I will show a summary with Confirm and Cancel buttons before anything is saved.
Type //help anytime.`

const helpText = `How to order:
• Name your flavors and sizes: "2 cheese pouches, 1 bbq tub"
• Pouch = 100g ₱150, tub = 200g ₱290. No size means pouch.
• Add a name ("para kay Maria"), payment (gcash, bpi, maya, cash, bdo), and area (QC or Paranaque) if you like.
• After confirming you can still edit: "pa-add 1 og pouch", "patanggal yung tub".

Commands: //help · //status`

var manila = mustLoadManila()

func mustLoadManila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// Bot polls Telegram for updates and routes them to the engine.
type Bot struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	api     *tgbotapi.BotAPI
	engine  *convo.Engine
	ledger  ledger.Ledger
}

// New authenticates against the Bot API.
func New(logger *slog.Logger, m *metrics.Metrics, token string, engine *convo.Engine, led ledger.Ledger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logger = logger.With("component", "telegram")
	logger.Info("authenticated", "bot", api.Self.UserName)
	return &Bot{logger: logger, metrics: m, api: api, engine: engine, ledger: led}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			// Each update runs on its own goroutine so a slow assist
			// call or ledger write in one chat never stalls the others.
			// The session store serializes updates per conversation.
			go b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.metrics.IncomingMessages.WithLabelValues("callback").Inc()
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if cmd, ok := commandOf(msg); ok {
		b.metrics.IncomingMessages.WithLabelValues("command").Inc()
		switch cmd {
		case "start":
			b.send(chatID, welcomeText, nil)
		case "help":
			b.send(chatID, helpText, nil)
		case "status":
			b.send(chatID, b.statusText(ctx), nil)
		default:
			b.send(chatID, "Unknown command. Try //help.", nil)
		}
		return
	}

	b.metrics.IncomingMessages.WithLabelValues("text").Inc()
	sender := msg.From.UserName
	if sender == "" {
		sender = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	}
	resp := b.engine.HandleMessage(ctx, chatID, sender, text)
	b.send(chatID, resp.Summary, resp.Buttons)
}

// commandOf recognises both Telegram-native commands (/help) and the
// double-slash forms customers are used to (//help, //status).
func commandOf(msg *tgbotapi.Message) (string, bool) {
	if msg.IsCommand() {
		return strings.ToLower(msg.Command()), true
	}
	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "//") {
		return strings.ToLower(strings.TrimPrefix(text, "//")), true
	}
	return "", false
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge first so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", "error", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	resp := b.engine.HandleAction(ctx, chatID, cb.Data)

	// Once an order is settled, strip the buttons off the old preview so
	// stale taps do nothing confusing.
	if resp.Kind == convo.KindCommitted || resp.Kind == convo.KindCancelled {
		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		if _, err := b.api.Request(edit); err != nil {
			b.logger.Debug("strip buttons failed", "error", err)
		}
	}

	b.send(chatID, resp.Summary, resp.Buttons)
}

func (b *Bot) send(chatID int64, text string, buttons []convo.Button) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
		for _, btn := range buttons {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Action))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.metrics.Errors.WithLabelValues("telegram").Inc()
		b.logger.Error("send failed", "chat", chatID, "error", err)
	}
}

func (b *Bot) statusText(ctx context.Context) string {
	var sb strings.Builder
	sb.WriteString("🤖 Bot status\n")
	sb.WriteString(fmt.Sprintf("Time: %s (Manila)\n", time.Now().In(manila).Format("2006-01-02 15:04")))

	if b.engine.AssistEnabled() {
		sb.WriteString("AI parsing: on\n")
	} else {
		sb.WriteString("AI parsing: off (local parser only)\n")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := b.ledger.Ping(pingCtx); err != nil {
		sb.WriteString("Ledger: unreachable ⚠️\n")
		b.logger.Warn("status ledger ping failed", "error", err)
	} else {
		sb.WriteString("Ledger: connected\n")
		if prober, ok := b.ledger.(ledger.RowProber); ok {
			if row, err := prober.NextRow(pingCtx); err == nil {
				sb.WriteString(fmt.Sprintf("Next free row: %d\n", row))
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
