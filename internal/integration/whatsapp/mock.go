package whatsapp

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector logs outbound messages instead of delivering them.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) SendText(ctx context.Context, to, body string) error {
	ctxzap.Info(ctx, "[MOCK] sending WhatsApp text message",
		zap.String("to", to),
		zap.Int("body_length", len(body)),
	)
	return nil
}
