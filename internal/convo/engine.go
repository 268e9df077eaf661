// Package convo drives the per-conversation order flow: parse a message into
// a pending order, preview it, and commit or discard it on the customer's
// say-so.
package convo

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/assist"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/cache"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/ledger"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/metrics"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/parse"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/repo"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/session"
)

// ResponseKind classifies what the transport should render.
type ResponseKind int

const (
	KindPreview ResponseKind = iota
	KindCommitted
	KindCancelled
	KindInfo
	KindError
)

// Button actions understood by HandleAction.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionDetails = "details"
)

// Button is an inline choice offered with a response.
type Button struct {
	Label  string
	Action string
}

// Response is what the engine wants said back to the customer.
type Response struct {
	Kind    ResponseKind
	Summary string
	Buttons []Button
}

// Engine coordinates parsing, session state, and the ledger.
type Engine struct {
	logger        *slog.Logger
	metrics       *metrics.Metrics
	catalog       *catalog.Catalog
	parser        *parse.Parser
	assist        *assist.Client // nil disables model assist
	sessions      *session.Store
	ledger        ledger.Ledger
	repo          *repo.Repo
	cache         *cache.Cache
	assistPerMin  int
	persistWithin time.Duration
}

// Config wires an Engine. Assist, Repo, and Cache may be nil.
type Config struct {
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	Catalog         *catalog.Catalog
	Assist          *assist.Client
	Ledger          ledger.Ledger
	Repo            *repo.Repo
	Cache           *cache.Cache
	AssistPerMinute int
	PersistTimeout  time.Duration
}

// New creates a conversation engine.
func New(cfg Config) *Engine {
	perMin := cfg.AssistPerMinute
	if perMin <= 0 {
		perMin = 10
	}
	persistWithin := cfg.PersistTimeout
	if persistWithin <= 0 {
		persistWithin = 30 * time.Second
	}
	return &Engine{
		logger:        cfg.Logger.With("component", "convo"),
		metrics:       cfg.Metrics,
		catalog:       cfg.Catalog,
		parser:        parse.NewParser(cfg.Catalog),
		assist:        cfg.Assist,
		sessions:      session.NewStore(),
		ledger:        cfg.Ledger,
		repo:          cfg.Repo,
		cache:         cfg.Cache,
		assistPerMin:  perMin,
		persistWithin: persistWithin,
	}
}

// AssistEnabled reports whether a model assist client is configured.
func (e *Engine) AssistEnabled() bool { return e.assist != nil }

// HandleMessage parses a customer message into a pending order and returns a
// preview. Parse failures leave any existing pending order untouched.
func (e *Engine) HandleMessage(ctx context.Context, convID int64, sender, text string) *Response {
	e.repo.InsertMessage(ctx, convID, sender, text)

	var resp *Response
	e.sessions.With(convID, func(s *session.Session) {
		prior := s.Prior

		specs, meta, source, err := e.parseMessage(ctx, convID, text, prior)
		if err != nil {
			e.metrics.Errors.WithLabelValues("parse").Inc()
			resp = &Response{Kind: KindError, Summary: friendlyParseError(err)}
			return
		}

		o, err := order.Build(e.catalog, specs, meta, text)
		if err != nil {
			e.metrics.Errors.WithLabelValues("build").Inc()
			e.logger.Warn("order build failed", "conversation", convID, "error", err)
			resp = &Response{Kind: KindError, Summary: "Sorry, I could not put that order together. Please try rephrasing it."}
			return
		}

		e.metrics.OrdersParsed.WithLabelValues(source).Inc()
		s.Pending = o

		resp = &Response{
			Kind:    KindPreview,
			Summary: o.RenderPreview(),
			Buttons: previewButtons(),
		}
	})
	return resp
}

// parseMessage tries model assist first and falls back to the local pipeline.
// The returned source labels which path produced the result.
func (e *Engine) parseMessage(ctx context.Context, convID int64, text string, prior *order.Order) ([]order.ItemSpec, order.Metadata, string, error) {
	if e.assist != nil && e.cache.AllowAssist(ctx, convID, e.assistPerMin) {
		sp, err := e.assist.ParseOrder(ctx, text, prior)
		if err == nil {
			specs, meta, verr := assist.Validate(e.catalog, sp)
			if verr == nil {
				return specs, meta, "assist", nil
			}
			err = verr
		}
		e.logger.Warn("assist unavailable, parsing locally", "conversation", convID, "error", err)
		e.metrics.ParseFallbacks.Inc()
	}

	res, err := e.parser.Parse(text, prior)
	if err != nil {
		return nil, order.Metadata{}, "", err
	}
	return res.Items, res.Meta, "local", nil
}

// HandleAction resolves a button press against the pending order.
func (e *Engine) HandleAction(ctx context.Context, convID int64, action string) *Response {
	var resp *Response
	e.sessions.With(convID, func(s *session.Session) {
		switch action {
		case ActionConfirm:
			resp = e.confirm(ctx, convID, s)
		case ActionCancel:
			if s.Pending == nil {
				resp = nothingPending()
				return
			}
			s.Pending = nil
			resp = &Response{Kind: KindCancelled, Summary: "Order cancelled. Send a new message anytime to start over."}
		case ActionDetails:
			switch {
			case s.Pending != nil:
				resp = &Response{Kind: KindInfo, Summary: s.Pending.RenderDetails(), Buttons: previewButtons()}
			case s.Prior != nil:
				resp = &Response{Kind: KindInfo, Summary: s.Prior.RenderDetails()}
			default:
				resp = nothingPending()
			}
		default:
			resp = &Response{Kind: KindError, Summary: "I did not understand that action."}
		}
	})
	return resp
}

// confirm writes the pending order to the ledger. One immediate retry covers
// transient backend hiccups; if both attempts fail the pending order stays so
// the customer can confirm again.
func (e *Engine) confirm(ctx context.Context, convID int64, s *session.Session) *Response {
	if s.Pending == nil {
		return nothingPending()
	}

	o := s.Pending
	if o.Ref == "" {
		o.Ref = newRef()
	}

	row, err := e.appendWithTimeout(ctx, o)
	if err != nil {
		row, err = e.appendWithTimeout(ctx, o)
	}
	if err != nil {
		e.metrics.Errors.WithLabelValues("ledger").Inc()
		e.logger.Error("ledger write failed", "conversation", convID, "ref", o.Ref, "error", err)
		return &Response{
			Kind:    KindError,
			Summary: "⚠️ I could not save the order just now. Nothing was lost. Tap Confirm to try again, or Cancel.",
			Buttons: previewButtons(),
		}
	}

	e.metrics.OrdersCommitted.Inc()
	e.repo.InsertOrder(ctx, convID, o, int64(row))
	e.logger.Info("order committed", "conversation", convID, "ref", o.Ref, "row", int64(row), "total", o.GrandTotal)

	s.Prior = o
	s.Pending = nil

	var sb strings.Builder
	sb.WriteString(o.RenderSaved())
	sb.WriteString("\n\n")
	sb.WriteString(o.RenderBreakdown())
	return &Response{Kind: KindCommitted, Summary: sb.String()}
}

// appendWithTimeout bounds a single ledger write so a stuck backend cannot
// hold the conversation open indefinitely.
func (e *Engine) appendWithTimeout(ctx context.Context, o *order.Order) (ledger.RowRef, error) {
	appendCtx, cancel := context.WithTimeout(ctx, e.persistWithin)
	defer cancel()
	return e.ledger.AppendOrder(appendCtx, o)
}

func previewButtons() []Button {
	return []Button{
		{Label: "✅ Confirm", Action: ActionConfirm},
		{Label: "❌ Cancel", Action: ActionCancel},
		{Label: "📋 Details", Action: ActionDetails},
	}
}

func nothingPending() *Response {
	return &Response{Kind: KindInfo, Summary: "There is no pending order right now. Send your order as a message to get started."}
}

func newRef() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

func friendlyParseError(err error) string {
	if unresolved, ok := parse.IsUnresolvedSize(err); ok {
		return "I saw \"" + unresolved.Mention + "\" but could not tell the size. Pouches are 100g and tubs are 200g, which did you mean?"
	}
	if nli, ok := parse.IsNoLineItemsFound(err); ok {
		return "I could not find any products in \"" + nli.Excerpt + "\". We have Cheese, Sour Cream, BBQ, and Original in pouches (₱150) and tubs (₱290)."
	}
	if parse.IsEmptyOrderAfterModification(err) {
		return "That change would leave the order empty. If you want to drop the whole order, tap Cancel instead."
	}
	return "Sorry, I could not read that order. Please try rephrasing it."
}
