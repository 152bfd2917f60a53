package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/pkg/logger"
	"github.com/eduassist/chat-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	processor   MessageProcessor
	dispatcher  Dispatcher
	verifyToken string
	logger      *zap.Logger
}

func NewHandler(
	processor MessageProcessor,
	dispatcher Dispatcher,
	verifyToken string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		processor:   processor,
		dispatcher:  dispatcher,
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// Verify handles GET /webhook, the provider's subscription handshake. The
// challenge is echoed only when the mode and the shared token both match.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "VerifyWebhook")

	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		ctxzap.Warn(ctx, "webhook verification rejected", zap.String("mode", mode))
		response.Error(w, http.StatusForbidden, entity.ErrForbidden.Error())
		return
	}

	ctxzap.Info(ctx, "webhook verified")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// Receive handles POST /webhook. Deliveries are acknowledged immediately and
// the messages they carry are dispatched to per-sender queues; status-only
// deliveries are acknowledged and ignored.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ReceiveWebhook")

	var payload entity.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ctxzap.Error(ctx, "failed to decode webhook payload", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dispatched := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			phoneNumberID := change.Value.Metadata.PhoneNumberID
			for i := range change.Value.Messages {
				msg := change.Value.Messages[i]
				h.dispatcher.Dispatch(msg.From, func(taskCtx context.Context) {
					h.process(taskCtx, phoneNumberID, &msg)
				})
				dispatched++
			}
		}
	}

	ctxzap.Info(ctx, "webhook delivery accepted", zap.Int("messages", dispatched))
	w.WriteHeader(http.StatusOK)
}

// process runs outside the request lifecycle, on a dispatcher goroutine, so
// it builds its own logging context.
func (h *Handler) process(ctx context.Context, phoneNumberID string, msg *entity.WebhookMessage) {
	ctx = logger.AddFields(ctxzap.ToContext(ctx, h.logger),
		zap.String("action", "ProcessWebhookMessage"),
		zap.String("sender", msg.From),
	)

	if err := h.processor.HandleWhatsAppMessage(ctx, phoneNumberID, msg); err != nil {
		ctxzap.Error(ctx, "webhook message processing failed", zap.Error(err))
	}
}
