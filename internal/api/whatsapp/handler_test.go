package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduassist/chat-backend/internal/entity"
	whatsappdispatch "github.com/eduassist/chat-backend/internal/whatsapp"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type inlineDispatcher struct{}

func (inlineDispatcher) Dispatch(_ string, task whatsappdispatch.Task) {
	task(context.Background())
}

type recordingProcessor struct {
	phoneNumberIDs []string
	messages       []*entity.WebhookMessage
}

func (p *recordingProcessor) HandleWhatsAppMessage(_ context.Context, phoneNumberID string, msg *entity.WebhookMessage) error {
	p.phoneNumberIDs = append(p.phoneNumberIDs, phoneNumberID)
	p.messages = append(p.messages, msg)
	return nil
}

func newTestRouter(processor MessageProcessor) chi.Router {
	h := NewHandler(processor, inlineDispatcher{}, "secret-token", zap.NewNop())
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func TestVerifyWebhook(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "matching token echoes challenge",
			query:      "hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345",
			wantStatus: http.StatusOK,
			wantBody:   "12345",
		},
		{
			name:       "wrong token is forbidden",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode is forbidden",
			query:      "hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing parameters are forbidden",
			query:      "",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&recordingProcessor{})

			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestReceiveWebhook(t *testing.T) {
	t.Run("text message is dispatched with its phone number id", func(t *testing.T) {
		processor := &recordingProcessor{}
		router := newTestRouter(processor)

		payload := `{
			"object": "whatsapp_business_account",
			"entry": [{
				"id": "entry-1",
				"changes": [{
					"field": "messages",
					"value": {
						"metadata": {"phone_number_id": "phone-1"},
						"messages": [{
							"from": "15551234567",
							"timestamp": "1700000000",
							"type": "text",
							"text": {"body": "hello"}
						}]
					}
				}]
			}]
		}`

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, processor.messages, 1)
		assert.Equal(t, "phone-1", processor.phoneNumberIDs[0])
		assert.Equal(t, "15551234567", processor.messages[0].From)
		require.NotNil(t, processor.messages[0].Text)
		assert.Equal(t, "hello", processor.messages[0].Text.Body)
	})

	t.Run("statuses-only delivery is acked and ignored", func(t *testing.T) {
		processor := &recordingProcessor{}
		router := newTestRouter(processor)

		payload := `{
			"object": "whatsapp_business_account",
			"entry": [{
				"id": "entry-1",
				"changes": [{
					"field": "messages",
					"value": {
						"metadata": {"phone_number_id": "phone-1"},
						"statuses": [{"id": "wamid.X", "status": "delivered"}]
					}
				}]
			}]
		}`

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, processor.messages)
	})

	t.Run("multiple messages keep arrival order", func(t *testing.T) {
		processor := &recordingProcessor{}
		router := newTestRouter(processor)

		payload := `{
			"entry": [{
				"changes": [{
					"value": {
						"metadata": {"phone_number_id": "phone-1"},
						"messages": [
							{"from": "a", "timestamp": "1", "type": "text", "text": {"body": "first"}},
							{"from": "a", "timestamp": "2", "type": "text", "text": {"body": "second"}}
						]
					}
				}]
			}]
		}`

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, processor.messages, 2)
		assert.Equal(t, "first", processor.messages[0].Text.Body)
		assert.Equal(t, "second", processor.messages[1].Text.Body)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		router := newTestRouter(&recordingProcessor{})

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
