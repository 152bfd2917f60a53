package entity

import "encoding/json"

// WhatsApp Cloud API webhook payload. Only the fields this service reads are
// mapped; everything else in the provider payload is ignored.

type WebhookPayload struct {
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
	Metadata WebhookMetadata   `json:"metadata"`
	Messages []WebhookMessage  `json:"messages,omitempty"`
	Statuses []json.RawMessage `json:"statuses,omitempty"`
}

type WebhookMetadata struct {
	PhoneNumberID string `json:"phone_number_id"`
}

type WebhookMessage struct {
	From      string       `json:"from"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *WebhookText `json:"text,omitempty"`
}

type WebhookText struct {
	Body string `json:"body"`
}

// SessionKey builds the transcript key for one inbound WhatsApp message.
func (m *WebhookMessage) SessionKey(phoneNumberID string) string {
	return phoneNumberID + "-" + m.From
}
