package entities

import (
	"encoding/json"
	"fmt"
)

// WebhookEvent is the WhatsApp Cloud API notification envelope.
// Only the fields the relay reads are declared.
type WebhookEvent struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string          `json:"messaging_product"`
	Metadata         WebhookMetadata `json:"metadata"`
	Messages         []WebhookMsg    `json:"messages"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookMsg struct {
	ID        string       `json:"id"`
	From      string       `json:"from"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *WebhookText `json:"text,omitempty"`
}

type WebhookText struct {
	Body string `json:"body"`
}

// FirstMessage extracts the first message of the first entry/change.
// ok is false when the event carries no messages (status callbacks, malformed payloads)
// or the message has no sender to reply to.
func (e *WebhookEvent) FirstMessage() (InboundMessage, bool) {
	if e == nil || len(e.Entry) == 0 || len(e.Entry[0].Changes) == 0 {
		return InboundMessage{}, false
	}
	value := e.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return InboundMessage{}, false
	}
	m := value.Messages[0]
	if m.From == "" {
		return InboundMessage{}, false
	}
	in := InboundMessage{
		From:          m.From,
		PhoneNumberID: value.Metadata.PhoneNumberID,
	}
	if m.Text != nil {
		in.Body = m.Text.Body
	}
	return in, true
}

// DecodeWebhookEvent parses a delivery payload. Anything that is not a JSON object
// fails with ErrMalformedEvent.
func DecodeWebhookEvent(data []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return &event, nil
}
