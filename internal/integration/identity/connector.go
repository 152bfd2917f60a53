package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/eduassist/chat-backend/internal/config"
	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/integration/common"
	pkghttp "github.com/eduassist/chat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.IdentityConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.IdentityConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// GetProfile exchanges a caller's bearer token for their identity profile.
// Any non-2xx answer from the identity service maps to entity.ErrForbidden;
// callers never see upstream detail.
func (c *Connector) GetProfile(ctx context.Context, token string) (*entity.UserProfile, error) {
	ctxzap.Debug(ctx, "verifying token via identity service")

	var profile entity.UserProfile
	err := c.connector.DoRequest(ctx, http.MethodGet, c.config.ProfileEndpoint, nil, &profile,
		pkghttp.WithHeader("Authorization", "Bearer "+token),
	)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) {
			ctxzap.Warn(ctx, "identity service rejected token", zap.Int("status", httpErr.StatusCode))
			return nil, entity.ErrForbidden
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return &profile, nil
}
