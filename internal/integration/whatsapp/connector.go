package whatsapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/eduassist/chat-backend/internal/config"
	"github.com/eduassist/chat-backend/internal/integration/common"
	pkghttp "github.com/eduassist/chat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type textMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             messageText `json:"text"`
}

type messageText struct {
	Body string `json:"body"`
}

type Connector struct {
	config    config.WhatsAppConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.WhatsAppConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// SendText delivers one outbound text message through the Cloud API messages
// endpoint of the configured business phone number.
func (c *Connector) SendText(ctx context.Context, to, body string) error {
	ctxzap.Info(ctx, "sending WhatsApp text message", zap.String("to", to))

	req := textMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             messageText{Body: body},
	}

	endpoint := fmt.Sprintf("/%s/messages", c.config.PhoneNumberID)
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, nil)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return fmt.Errorf("send text message: %w", err)
	}

	return nil
}
