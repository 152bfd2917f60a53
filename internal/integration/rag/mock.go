package rag

import (
	"context"
	"fmt"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a retrieval service, for local runs.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Answer(ctx context.Context, req *entity.RAGAnswerRequest) (
	*entity.RAGAnswerResponse, error,
) {
	ctxzap.Info(ctx, "[MOCK] answering via RAG service",
		zap.Int("history_length", len(req.History)),
	)

	return &entity.RAGAnswerResponse{
		Answer: fmt.Sprintf("This is a mock answer to: %s", req.Input),
		Input:  req.Input,
	}, nil
}
