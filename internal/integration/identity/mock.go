package identity

import (
	"context"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector accepts any non-empty token, for local runs.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) GetProfile(ctx context.Context, token string) (*entity.UserProfile, error) {
	ctxzap.Debug(ctx, "[MOCK] verifying token via identity service")

	if token == "" {
		return nil, entity.ErrForbidden
	}

	return &entity.UserProfile{
		IDNumber: "mock-user-1",
		Name:     "Mock User",
		Email:    "mock@example.com",
	}, nil
}
