package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultAPIBase is the public Telegram Bot API host.
const DefaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken  string
	ChatID    string
	APIBase   string
	RetryBase time.Duration

	client     *resty.Client
	pollClient *resty.Client
	log        zerolog.Logger
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the envelope of every Bot API reply.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, log zerolog.Logger) *TelegramNotifier {
	log = log.With().Str("component", "telegram").Logger()
	return &TelegramNotifier{
		BotToken:   botToken,
		ChatID:     chatID,
		APIBase:    DefaultAPIBase,
		RetryBase:  time.Second,
		client:     newClient(proxyURL, 30*time.Second, log),
		pollClient: newClient(proxyURL, 35*time.Second, log), // outlives the 30s long-poll
		log:        log,
	}
}

// restyLogger routes resty's internal messages into zerolog.
type restyLogger struct{ log zerolog.Logger }

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
// attempt failures are reported by the retry hook at WARN
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Debug().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }

func newClient(proxyURL string, timeout time.Duration, log zerolog.Logger) *resty.Client {
	c := resty.New().SetTimeout(timeout).SetLogger(restyLogger{log})
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	return c
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
}

// decode reads the Bot API envelope; a non-2xx status or ok=false is an error.
func decode(resp *resty.Response) (*apiResponse, error) {
	var out apiResponse
	_ = json.Unmarshal(resp.Body(), &out)
	if resp.IsError() || !out.OK {
		if out.Description != "" {
			return nil, fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode(), out.Description)
		}
		return nil, fmt.Errorf("telegram API error: status %d", resp.StatusCode())
	}
	return &out, nil
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: t.ChatID, Text: text, ParseMode: "HTML"}).
		Post(t.endpoint("sendMessage"))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	_, err = decode(resp)
	return err
}

// SendWithRetry sends a message, retrying transport errors and non-2xx
// replies up to maxRetries times with exponential backoff from RetryBase.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	client := resty.NewWithClient(t.client.GetClient()).
		SetLogger(restyLogger{t.log}).
		SetRetryCount(maxRetries).
		SetRetryWaitTime(t.RetryBase).
		SetRetryMaxWaitTime(t.RetryBase << uint(maxRetries)).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.IsError()
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			ev := t.log.Warn().Err(err)
			if r != nil {
				ev = ev.Int("status", r.StatusCode()).Int("attempt", r.Request.Attempt)
			}
			ev.Msg("telegram send failed, retrying")
		})

	resp, err := client.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: t.ChatID, Text: text, ParseMode: "HTML"}).
		Post(t.endpoint("sendMessage"))
	if err == nil {
		_, err = decode(resp)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, err)
	}
	return nil
}
