package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/metrics"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

const (
	geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"
)

var (
	errQuotaExceeded = errors.New("gemini quota exceeded")
	errUnauthorised  = errors.New("gemini unauthorised")
)

// Error is any assist failure. It is always recovered by falling back to the
// local pipeline and never surfaced to the user.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assist: %s: %v", e.Reason, e.Err)
	}
	return "assist: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// StructuredParse mirrors the JSON contract the model is instructed to return.
type StructuredParse struct {
	CustomerName       string           `json:"customer_name"`
	PaymentMethod      string           `json:"payment_method"`
	CustomerLocation   string           `json:"customer_location"`
	DiscountPercentage *float64         `json:"discount_percentage"`
	ShippingFee        *int             `json:"shipping_fee"`
	Items              []StructuredItem `json:"items"`
	Confidence         float64          `json:"confidence"`
	Notes              string           `json:"notes"`
}

type StructuredItem struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

type apiKey struct {
	value         string
	cooldownUntil time.Time
}

// Client calls Gemini to produce a first-pass structured parse of an order
// message. Keys rotate; a key that hits quota or auth errors is put on
// cooldown and the next one is tried.
type Client struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	httpClient *http.Client
	model      string
	timeout    time.Duration
	cooldown   time.Duration

	mu   sync.Mutex
	keys []apiKey

	testBaseURL string
}

// Config holds assist client configuration.
type Config struct {
	Keys     []string
	Model    string
	Timeout  time.Duration
	Cooldown time.Duration
}

// New creates a Gemini assist client.
func New(logger *slog.Logger, m *metrics.Metrics, cfg Config) *Client {
	keys := make([]apiKey, 0, len(cfg.Keys))
	for _, k := range cfg.Keys {
		keys = append(keys, apiKey{value: k})
	}
	return &Client{
		logger:     logger.With("component", "assist"),
		metrics:    m,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		cooldown:   cfg.Cooldown,
		keys:       keys,
	}
}

// ParseOrder asks the model for a structured parse of the message. For
// modification messages the prior confirmed order is serialized into the
// prompt so the model applies edits against it.
func (c *Client) ParseOrder(ctx context.Context, text string, prior *order.Order) (*StructuredParse, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildOrderPrompt(text, prior)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 1024,
		},
	}

	res, keyUsed, err := c.callGemini(ctx, payload)
	if err != nil {
		return nil, &Error{Reason: "request failed", Err: err}
	}
	c.metrics.AssistRequests.WithLabelValues("success").Inc()

	var parsed StructuredParse
	if err := json.Unmarshal([]byte(normaliseJSON(res)), &parsed); err != nil {
		c.metrics.Errors.WithLabelValues("assist").Inc()
		snippet := res
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &Error{Reason: "malformed response", Err: fmt.Errorf("%w (snippet=%q)", err, snippet)}
	}

	c.logger.Debug("assist parse", "items", len(parsed.Items), "confidence", parsed.Confidence, "key", keyUsed)
	return &parsed, nil
}

func (c *Client) callGemini(ctx context.Context, payload geminiRequest) (string, int, error) {
	var lastErr error
	for i := range c.snapshotKeys() {
		c.mu.Lock()
		onCooldown := time.Now().Before(c.keys[i].cooldownUntil)
		key := c.keys[i].value
		c.mu.Unlock()
		if onCooldown {
			continue
		}

		text, err := c.invokeWithKey(ctx, key, payload)
		if err == nil {
			return text, i, nil
		}
		lastErr = err

		if errors.Is(err, errQuotaExceeded) || errors.Is(err, errUnauthorised) {
			c.mu.Lock()
			c.keys[i].cooldownUntil = time.Now().Add(c.cooldown)
			c.mu.Unlock()
			c.logger.Warn("assist key on cooldown", "key", i, "error", err)
			continue
		}
		// Transport-level failures are unlikely to be key specific.
		break
	}

	if lastErr == nil {
		lastErr = errors.New("no available gemini keys")
	}
	c.metrics.AssistRequests.WithLabelValues("failed").Inc()
	return "", 0, lastErr
}

func (c *Client) snapshotKeys() []apiKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]apiKey, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c *Client) invokeWithKey(ctx context.Context, key string, payload geminiRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL(), c.model, key)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.AssistRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.AssistLatency.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return extractCandidateText(respBody)
	case http.StatusTooManyRequests:
		return "", errQuotaExceeded
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", errUnauthorised
	default:
		return "", fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}
}

// baseURL is overridable for tests.
func (c *Client) baseURL() string {
	if c.testBaseURL != "" {
		return c.testBaseURL
	}
	return geminiAPIBase
}

func extractCandidateText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", errors.New("no candidate text found")
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int32   `json:"maxOutputTokens,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Role  string       `json:"role"`
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// normaliseJSON strips markdown fences and trailing junk so a mostly-JSON
// model reply still decodes.
func normaliseJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if strings.HasPrefix(strings.ToLower(s), "json") {
			if idx := strings.IndexByte(s, '\n'); idx >= 0 {
				s = s[idx+1:]
			} else {
				s = ""
			}
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		if start := strings.Index(s, "{"); start >= 0 {
			if end := strings.LastIndex(s, "}"); end >= start {
				s = s[start : end+1]
			}
		}
	}
	return strings.TrimSpace(s)
}
