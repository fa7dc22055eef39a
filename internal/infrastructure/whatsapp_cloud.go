package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"whatsapp_crm/internal/entities"
)

const maxErrorBody = 512

// ErrRecipientRejected marks a 4xx answer about one message (bad or unreachable number).
// It still wraps entities.ErrDelivery but does not count against the circuit breaker.
var ErrRecipientRejected = errors.New("recipient rejected")

type WhatsAppCloudConfig struct {
	BaseURL       string
	APIVersion    string
	PhoneNumberID string
	AccessToken   string
	Timeout       time.Duration

	// Consecutive failures that open the breaker, and how long it stays open.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// WhatsAppCloudClient sends text messages through the WhatsApp Cloud API.
type WhatsAppCloudClient struct {
	cfg        WhatsAppCloudConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	log        *zap.Logger
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func NewWhatsAppCloudClient(cfg WhatsAppCloudConfig, log *zap.Logger) *WhatsAppCloudClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	w := &WhatsAppCloudClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
	w.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "whatsapp-cloud",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRecipientRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("delivery circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return w
}

// SendText posts a text message to the recipient. Every failure wraps entities.ErrDelivery.
func (w *WhatsAppCloudClient) SendText(ctx context.Context, to, body string) error {
	_, err := w.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, w.post(ctx, to, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", entities.ErrDelivery, err)
	}
	return err
}

func (w *WhatsAppCloudClient) messagesURL() string {
	return fmt.Sprintf("%s/%s/%s/messages", w.cfg.BaseURL, w.cfg.APIVersion, w.cfg.PhoneNumberID)
}

func (w *WhatsAppCloudClient) post(ctx context.Context, to, body string) error {
	data, err := json.Marshal(textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", entities.ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.messagesURL(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", entities.ErrDelivery, err)
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := strings.TrimSpace(string(snippet))
		if recipientScoped(resp.StatusCode) {
			return fmt.Errorf("%w: %w: status %d: %s", entities.ErrDelivery, ErrRecipientRejected, resp.StatusCode, detail)
		}
		return fmt.Errorf("%w: status %d: %s", entities.ErrDelivery, resp.StatusCode, detail)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// recipientScoped reports whether a status describes this one message rather than the API.
// 401 (bad token) and 429 (throttling) affect every send, as does any 5xx.
func recipientScoped(status int) bool {
	return status >= 400 && status < 500 &&
		status != http.StatusUnauthorized && status != http.StatusTooManyRequests
}

// BreakerState reports the circuit breaker state for health output.
func (w *WhatsAppCloudClient) BreakerState() string {
	return w.breaker.State().String()
}
