package escalation

import (
	"context"
	"fmt"
	"strings"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector imitates the expert model with a keyword check, for local runs.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Evaluate(ctx context.Context, req *entity.EscalationRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] evaluating answer via escalation service")

	lowered := strings.ToLower(req.Answer)
	if strings.Contains(lowered, "i don't know") || strings.Contains(lowered, "i do not know") {
		return fmt.Sprintf("I need expert help to answer the question: %s", req.Input), nil
	}

	return entity.EscalationNotNeeded, nil
}
