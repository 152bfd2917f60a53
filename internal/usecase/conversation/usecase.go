package conversation

import (
	"context"
	"fmt"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ConversationUsecase composes the session store, the external answer and
// escalation capabilities and the WhatsApp sender. It is the only place that
// touches more than one session in a single logical operation.
type ConversationUsecase struct {
	messageRepo    repository.MessageRepository
	promptRepo     repository.PromptRepository
	intakeRepo     repository.WhatsAppIntakeRepository
	answerConn     AnswerConnector
	escalationConn EscalationConnector
	sender         MessageSender
	logger         *zap.Logger
}

// NewUsecase creates a new conversation use case
func NewUsecase(
	messageRepo repository.MessageRepository,
	promptRepo repository.PromptRepository,
	intakeRepo repository.WhatsAppIntakeRepository,
	answerConn AnswerConnector,
	escalationConn EscalationConnector,
	sender MessageSender,
	logger *zap.Logger,
) *ConversationUsecase {
	return &ConversationUsecase{
		messageRepo:    messageRepo,
		promptRepo:     promptRepo,
		intakeRepo:     intakeRepo,
		answerConn:     answerConn,
		escalationConn: escalationConn,
		sender:         sender,
		logger:         logger,
	}
}

// Converse runs one conversation turn for an already-validated request.
// An empty message is a history-only read; anything else goes to the answer
// capability and both sides of the exchange are appended to the session.
func (uc *ConversationUsecase) Converse(ctx context.Context, sessionKey, message string) (*entity.ConversationResult, error) {
	if message == "" {
		return uc.historyOnly(ctx, sessionKey)
	}
	return uc.answer(ctx, sessionKey, message)
}

// historyOnly never mutates any session. Only the reserved experts session
// renders its window in the read path; every other session answers with an
// empty list, because for them the endpoint doubles as the escalation
// channel's write side.
func (uc *ConversationUsecase) historyOnly(ctx context.Context, sessionKey string) (*entity.ConversationResult, error) {
	window, err := uc.messageRepo.Window(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	messages := []entity.HistoryEntry{}
	if sessionKey == entity.ExpertsSessionKey {
		messages = FormatHistory(window)
	}

	ctxzap.Info(ctx, "history-only request served",
		zap.Int("window_size", len(window)),
	)

	return &entity.ConversationResult{Messages: messages}, nil
}

func (uc *ConversationUsecase) answer(ctx context.Context, sessionKey, message string) (*entity.ConversationResult, error) {
	window, err := uc.messageRepo.Window(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	resp, err := uc.answerConn.Answer(ctx, &entity.RAGAnswerRequest{
		Input:   message,
		History: FormatHistory(window),
	})
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	if _, err := uc.messageRepo.Append(ctx, sessionKey, entity.RoleHuman, resp.Input); err != nil {
		return nil, fmt.Errorf("append question: %w", err)
	}
	if _, err := uc.messageRepo.Append(ctx, sessionKey, entity.RoleAI, resp.Answer); err != nil {
		return nil, fmt.Errorf("append answer: %w", err)
	}

	var messages []entity.HistoryEntry
	if sessionKey == entity.ExpertsSessionKey {
		// The experts session reports its pre-answer window.
		messages = FormatHistory(window)
	} else {
		messages = []entity.HistoryEntry{
			{Role: entity.RoleLabelUser, Content: resp.Input},
			{Role: entity.RoleLabelAI, Content: resp.Answer},
		}
		uc.escalate(ctx, resp)
	}

	return &entity.ConversationResult{
		Question: resp.Input,
		Answer:   resp.Answer,
		Messages: messages,
	}, nil
}

// escalate runs the expert check and, when needed, appends the escalation
// text to the reserved experts session. Failures here are logged and
// swallowed: the primary appends are already committed and the caller's
// answer must not depend on this step.
func (uc *ConversationUsecase) escalate(ctx context.Context, resp *entity.RAGAnswerResponse) {
	prompt, err := uc.ensureEscalationPrompt(ctx)
	if err != nil {
		ctxzap.Error(ctx, "escalation prompt bootstrap failed", zap.Error(err))
		return
	}

	verdict, err := uc.escalationConn.Evaluate(ctx, &entity.EscalationRequest{
		Answer: resp.Answer,
		Input:  resp.Input,
		Prompt: prompt.PromptText,
	})
	if err != nil {
		ctxzap.Error(ctx, "escalation evaluation failed", zap.Error(err))
		return
	}

	if verdict == entity.EscalationNotNeeded {
		return
	}

	if _, err := uc.messageRepo.Append(ctx, entity.ExpertsSessionKey, entity.RoleAI, verdict); err != nil {
		ctxzap.Error(ctx, "append escalation to experts session failed", zap.Error(err))
		return
	}

	ctxzap.Info(ctx, "question escalated to experts session")
}

// HandleWhatsAppMessage processes one inbound webhook message end to end:
// dedup on (session key, provider timestamp), reject non-text types with a
// fixed reply, otherwise answer and respond through the sender.
func (uc *ConversationUsecase) HandleWhatsAppMessage(ctx context.Context, phoneNumberID string, msg *entity.WebhookMessage) error {
	sessionKey := msg.SessionKey(phoneNumberID)

	exists, err := uc.intakeRepo.Exists(ctx, sessionKey, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("check duplicate delivery: %w", err)
	}
	if exists {
		ctxzap.Info(ctx, "duplicate webhook delivery dropped",
			zap.String("session_key", sessionKey),
			zap.String("timestamp", msg.Timestamp),
		)
		return nil
	}

	if msg.Type != "text" || msg.Text == nil {
		ctxzap.Warn(ctx, "unsupported WhatsApp message type",
			zap.String("type", msg.Type),
		)
		if err := uc.sender.SendText(ctx, msg.From, unsupportedTypeReply); err != nil {
			return fmt.Errorf("send rejection reply: %w", err)
		}
		return nil
	}

	result, err := uc.answer(ctx, sessionKey, msg.Text.Body)
	if err != nil {
		return fmt.Errorf("answer whatsapp message: %w", err)
	}

	if err := uc.intakeRepo.Create(ctx, sessionKey, msg.Timestamp); err != nil {
		return fmt.Errorf("record intake: %w", err)
	}

	if err := uc.sender.SendText(ctx, msg.From, result.Answer); err != nil {
		return fmt.Errorf("send answer: %w", err)
	}

	return nil
}

// GetTranscript reads the full transcript of one session, oldest-first, for
// export. Unlike Converse it is not bounded by the conversation window.
func (uc *ConversationUsecase) GetTranscript(ctx context.Context, sessionKey string) ([]entity.HistoryEntry, error) {
	messages, err := uc.messageRepo.All(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	return FormatHistory(messages), nil
}
