package escalation

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
	config    config.EscalationConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EscalationConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Evaluate asks the expert model whether the generated answer admitted
// ignorance. The returned string is either the escalation message for human
// experts or the literal sentinel entity.EscalationNotNeeded.
func (c *Connector) Evaluate(ctx context.Context, req *entity.EscalationRequest) (string, error) {
	ctxzap.Info(ctx, "evaluating answer via escalation service")

	var resp entity.EscalationResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.EvaluateEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return "", fmt.Errorf("escalation request failed: %w", err)
	}

	if resp.Result == "" {
		return "", fmt.Errorf("invalid escalation response: empty or missing result field")
	}

	ctxzap.Info(ctx, "escalation evaluated",
		zap.Bool("escalated", resp.Result != entity.EscalationNotNeeded),
	)

	return resp.Result, nil
}
