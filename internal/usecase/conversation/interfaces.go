package conversation

import (
	"context"

	"github.com/eduassist/chat-backend/internal/entity"
)

// AnswerConnector is the external RAG capability: answer one question given
// the current conversation window.
type AnswerConnector interface {
	Answer(ctx context.Context, req *entity.RAGAnswerRequest) (*entity.RAGAnswerResponse, error)
}

// EscalationConnector is the expert-model capability deciding whether a human
// expert is needed. Returns entity.EscalationNotNeeded or the escalation text.
type EscalationConnector interface {
	Evaluate(ctx context.Context, req *entity.EscalationRequest) (string, error)
}

// MessageSender delivers outbound WhatsApp messages.
type MessageSender interface {
	SendText(ctx context.Context, to, body string) error
}
