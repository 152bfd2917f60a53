package whatsapp

import (
	"context"

	"github.com/eduassist/chat-backend/internal/entity"
	whatsappdispatch "github.com/eduassist/chat-backend/internal/whatsapp"
)

// MessageProcessor runs one inbound webhook message through the conversation
// pipeline.
type MessageProcessor interface {
	HandleWhatsAppMessage(ctx context.Context, phoneNumberID string, msg *entity.WebhookMessage) error
}

// Dispatcher serializes webhook work per sender.
type Dispatcher interface {
	Dispatch(senderID string, task whatsappdispatch.Task)
}
