package rag

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/eduassist/chat-backend/internal/config"
	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/integration/common"
	pkghttp "github.com/eduassist/chat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.RAGConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RAGConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Answer asks the retrieval service for an answer to one question given the
// current conversation window. Retrieval, embeddings and prompting are the
// service's concern; this side only ships the question and history across.
func (c *Connector) Answer(ctx context.Context, req *entity.RAGAnswerRequest) (
	*entity.RAGAnswerResponse, error,
) {
	ctxzap.Info(ctx, "requesting answer from RAG service",
		zap.Int("history_length", len(req.History)),
	)

	var resp entity.RAGAnswerResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.AnswerEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("answer request failed: %w", err)
	}

	if resp.Answer == "" {
		return nil, fmt.Errorf("invalid answer response: empty or missing answer field")
	}

	// The retrieval chain echoes the input; tolerate services that omit it.
	if resp.Input == "" {
		resp.Input = req.Input
	}

	ctxzap.Info(ctx, "answer generated successfully", zap.Int("answer_length", len(resp.Answer)))

	return &resp, nil
}
