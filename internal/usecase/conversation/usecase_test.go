package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessageStore struct {
	messages []*entity.ChatMessage
	nextID   int64
	failOn   string
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{nextID: 1}
}

func (s *fakeMessageStore) Append(_ context.Context, sessionKey string, role entity.MessageRole, content string) (*entity.ChatMessage, error) {
	if s.failOn != "" && sessionKey == s.failOn {
		return nil, errors.New("store unavailable")
	}
	msg := &entity.ChatMessage{
		ID:         s.nextID,
		SessionKey: sessionKey,
		Role:       role,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *fakeMessageStore) Window(_ context.Context, sessionKey string) ([]*entity.ChatMessage, error) {
	all := s.session(sessionKey)
	if len(all) > repository.WindowSize {
		all = all[len(all)-repository.WindowSize:]
	}
	return all, nil
}

func (s *fakeMessageStore) All(_ context.Context, sessionKey string) ([]*entity.ChatMessage, error) {
	return s.session(sessionKey), nil
}

func (s *fakeMessageStore) session(sessionKey string) []*entity.ChatMessage {
	var out []*entity.ChatMessage
	for _, msg := range s.messages {
		if msg.SessionKey == sessionKey {
			out = append(out, msg)
		}
	}
	return out
}

type fakePromptRepo struct {
	prompts map[string]*entity.Prompt
	creates int
	failGet bool
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: map[string]*entity.Prompt{}}
}

func (r *fakePromptRepo) GetByName(_ context.Context, name string) (*entity.Prompt, error) {
	if r.failGet {
		return nil, errors.New("prompt store unavailable")
	}
	prompt, ok := r.prompts[name]
	if !ok {
		return nil, entity.ErrPromptNotFound
	}
	return prompt, nil
}

func (r *fakePromptRepo) Create(_ context.Context, name, promptText string) (*entity.Prompt, error) {
	r.creates++
	prompt := &entity.Prompt{Name: name, PromptText: promptText}
	r.prompts[name] = prompt
	return prompt, nil
}

type fakeIntakeRepo struct {
	records map[string]bool
}

func newFakeIntakeRepo() *fakeIntakeRepo {
	return &fakeIntakeRepo{records: map[string]bool{}}
}

func (r *fakeIntakeRepo) Exists(_ context.Context, sessionKey, timestamp string) (bool, error) {
	return r.records[sessionKey+"|"+timestamp], nil
}

func (r *fakeIntakeRepo) Create(_ context.Context, sessionKey, timestamp string) error {
	r.records[sessionKey+"|"+timestamp] = true
	return nil
}

type stubAnswerConnector struct {
	answer string
	calls  int
	err    error
}

func (c *stubAnswerConnector) Answer(_ context.Context, req *entity.RAGAnswerRequest) (*entity.RAGAnswerResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &entity.RAGAnswerResponse{Answer: c.answer, Input: req.Input}, nil
}

type stubEscalationConnector struct {
	verdict string
	calls   int
	err     error
	lastReq *entity.EscalationRequest
}

func (c *stubEscalationConnector) Evaluate(_ context.Context, req *entity.EscalationRequest) (string, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return "", c.err
	}
	return c.verdict, nil
}

type stubSender struct {
	sent []string
	to   []string
	err  error
}

func (s *stubSender) SendText(_ context.Context, to, body string) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, to)
	s.sent = append(s.sent, body)
	return nil
}

type usecaseFixture struct {
	store      *fakeMessageStore
	prompts    *fakePromptRepo
	intake     *fakeIntakeRepo
	answer     *stubAnswerConnector
	escalation *stubEscalationConnector
	sender     *stubSender
	uc         *ConversationUsecase
}

func newFixture() *usecaseFixture {
	f := &usecaseFixture{
		store:      newFakeMessageStore(),
		prompts:    newFakePromptRepo(),
		intake:     newFakeIntakeRepo(),
		answer:     &stubAnswerConnector{answer: "an answer"},
		escalation: &stubEscalationConnector{verdict: entity.EscalationNotNeeded},
		sender:     &stubSender{},
	}
	f.uc = NewUsecase(f.store, f.prompts, f.intake, f.answer, f.escalation, f.sender, zap.NewNop())
	return f
}

func TestConverseAppendsBothSidesOfExchange(t *testing.T) {
	f := newFixture()

	result, err := f.uc.Converse(context.Background(), "session-1", "What is osmosis?")
	require.NoError(t, err)

	assert.Equal(t, "What is osmosis?", result.Question)
	assert.Equal(t, "an answer", result.Answer)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, entity.HistoryEntry{Role: entity.RoleLabelUser, Content: "What is osmosis?"}, result.Messages[0])
	assert.Equal(t, entity.HistoryEntry{Role: entity.RoleLabelAI, Content: "an answer"}, result.Messages[1])

	stored := f.store.session("session-1")
	require.Len(t, stored, 2)
	assert.Equal(t, entity.RoleHuman, stored[0].Role)
	assert.Equal(t, entity.RoleAI, stored[1].Role)
}

func TestConverseWindowBoundsHistorySentDownstream(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 25 appended messages, only the most recent 20 may reach the answerer.
	for i := 0; i < 25; i++ {
		_, err := f.store.Append(ctx, "session-1", entity.RoleHuman, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	var captured []entity.HistoryEntry
	f.uc.answerConn = answerFunc(func(_ context.Context, req *entity.RAGAnswerRequest) (*entity.RAGAnswerResponse, error) {
		captured = req.History
		return &entity.RAGAnswerResponse{Answer: "ok", Input: req.Input}, nil
	})

	_, err := f.uc.Converse(ctx, "session-1", "latest question")
	require.NoError(t, err)

	require.Len(t, captured, repository.WindowSize)
	assert.Equal(t, "message 5", captured[0].Content)
	assert.Equal(t, "message 24", captured[len(captured)-1].Content)
}

type answerFunc func(ctx context.Context, req *entity.RAGAnswerRequest) (*entity.RAGAnswerResponse, error)

func (f answerFunc) Answer(ctx context.Context, req *entity.RAGAnswerRequest) (*entity.RAGAnswerResponse, error) {
	return f(ctx, req)
}

func TestHistoryOnlyNeverMutates(t *testing.T) {
	tests := []struct {
		name       string
		sessionKey string
		seed       int
		wantCount  int
	}{
		{name: "regular session returns empty list", sessionKey: "session-1", seed: 4, wantCount: 0},
		{name: "experts session renders its window", sessionKey: entity.ExpertsSessionKey, seed: 4, wantCount: 4},
		{name: "unknown session returns empty list", sessionKey: "never-seen", seed: 0, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			for i := 0; i < tt.seed; i++ {
				_, err := f.store.Append(ctx, tt.sessionKey, entity.RoleHuman, "seed")
				require.NoError(t, err)
			}
			before := len(f.store.messages)

			result, err := f.uc.Converse(ctx, tt.sessionKey, "")
			require.NoError(t, err)

			assert.Len(t, result.Messages, tt.wantCount)
			assert.Empty(t, result.Question)
			assert.Empty(t, result.Answer)
			assert.Equal(t, before, len(f.store.messages), "history-only read must not append")
			assert.Zero(t, f.answer.calls)
		})
	}
}

func TestExpertsSessionReturnsPreAnswerWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.store.Append(ctx, entity.ExpertsSessionKey, entity.RoleAI, "earlier escalation")
	require.NoError(t, err)

	result, err := f.uc.Converse(ctx, entity.ExpertsSessionKey, "expert follow-up")
	require.NoError(t, err)

	// The window is the one read before the new pair was appended.
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "earlier escalation", result.Messages[0].Content)

	// The exchange itself is still persisted.
	assert.Len(t, f.store.session(entity.ExpertsSessionKey), 3)

	// The experts session never escalates to itself.
	assert.Zero(t, f.escalation.calls)
}

func TestEscalation(t *testing.T) {
	t.Run("sentinel verdict leaves experts session untouched", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Converse(context.Background(), "session-1", "What is X?")
		require.NoError(t, err)

		assert.Equal(t, 1, f.escalation.calls)
		assert.Empty(t, f.store.session(entity.ExpertsSessionKey))
	})

	t.Run("non-sentinel verdict crosses into experts session", func(t *testing.T) {
		f := newFixture()
		f.escalation.verdict = "I need expert help to answer the question: What is X?"

		_, err := f.uc.Converse(context.Background(), "session-1", "What is X?")
		require.NoError(t, err)

		experts := f.store.session(entity.ExpertsSessionKey)
		require.Len(t, experts, 1)
		assert.Equal(t, entity.RoleAI, experts[0].Role)
		assert.Equal(t, f.escalation.verdict, experts[0].Content)
	})

	t.Run("prompt is bootstrapped once and travels with the request", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Converse(context.Background(), "session-1", "first")
		require.NoError(t, err)
		_, err = f.uc.Converse(context.Background(), "session-1", "second")
		require.NoError(t, err)

		assert.Equal(t, 1, f.prompts.creates)
		require.NotNil(t, f.escalation.lastReq)
		assert.Equal(t, defaultExpertPromptText, f.escalation.lastReq.Prompt)
	})

	t.Run("evaluation failure never fails the caller", func(t *testing.T) {
		f := newFixture()
		f.escalation.err = errors.New("expert model down")

		result, err := f.uc.Converse(context.Background(), "session-1", "What is X?")
		require.NoError(t, err)
		assert.Equal(t, "an answer", result.Answer)
		assert.Len(t, f.store.session("session-1"), 2)
	})

	t.Run("prompt bootstrap failure never fails the caller", func(t *testing.T) {
		f := newFixture()
		f.prompts.failGet = true

		_, err := f.uc.Converse(context.Background(), "session-1", "What is X?")
		require.NoError(t, err)
		assert.Zero(t, f.escalation.calls)
	})

	t.Run("experts append failure never fails the caller", func(t *testing.T) {
		f := newFixture()
		f.escalation.verdict = "I need expert help to answer the question: What is X?"
		f.store.failOn = entity.ExpertsSessionKey

		result, err := f.uc.Converse(context.Background(), "session-1", "What is X?")
		require.NoError(t, err)
		assert.Equal(t, "an answer", result.Answer)
		assert.Len(t, f.store.session("session-1"), 2)
	})
}

func TestConverseAnswerFailureAppendsNothing(t *testing.T) {
	f := newFixture()
	f.answer.err = errors.New("pipeline unavailable")

	_, err := f.uc.Converse(context.Background(), "session-1", "What is X?")
	require.Error(t, err)
	assert.Empty(t, f.store.messages)
}

func TestHandleWhatsAppMessage(t *testing.T) {
	textMsg := func(body string) *entity.WebhookMessage {
		return &entity.WebhookMessage{
			From:      "15551234567",
			Timestamp: "1700000000",
			Type:      "text",
			Text:      &entity.WebhookText{Body: body},
		}
	}

	t.Run("text message is answered and replied to", func(t *testing.T) {
		f := newFixture()

		err := f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", textMsg("hello"))
		require.NoError(t, err)

		require.Len(t, f.sender.sent, 1)
		assert.Equal(t, "an answer", f.sender.sent[0])
		assert.Equal(t, "15551234567", f.sender.to[0])

		assert.Len(t, f.store.session("phone-1-15551234567"), 2)

		exists, err := f.intake.Exists(context.Background(), "phone-1-15551234567", "1700000000")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate delivery is dropped before any append", func(t *testing.T) {
		f := newFixture()
		msg := textMsg("hello")

		require.NoError(t, f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", msg))
		require.NoError(t, f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", msg))

		assert.Len(t, f.store.session("phone-1-15551234567"), 2)
		assert.Len(t, f.sender.sent, 1)
		assert.Equal(t, 1, f.answer.calls)
	})

	t.Run("same timestamp from different senders is not a duplicate", func(t *testing.T) {
		f := newFixture()
		other := textMsg("hello")
		other.From = "15559876543"

		require.NoError(t, f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", textMsg("hello")))
		require.NoError(t, f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", other))

		assert.Len(t, f.sender.sent, 2)
	})

	t.Run("non-text message gets the fixed rejection reply", func(t *testing.T) {
		f := newFixture()
		msg := &entity.WebhookMessage{
			From:      "15551234567",
			Timestamp: "1700000001",
			Type:      "image",
		}

		err := f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", msg)
		require.NoError(t, err)

		require.Len(t, f.sender.sent, 1)
		assert.Equal(t, unsupportedTypeReply, f.sender.sent[0])
		assert.Empty(t, f.store.messages)
		assert.Zero(t, f.answer.calls)
	})

	t.Run("answer failure propagates and leaves no intake record", func(t *testing.T) {
		f := newFixture()
		f.answer.err = errors.New("pipeline unavailable")

		err := f.uc.HandleWhatsAppMessage(context.Background(), "phone-1", textMsg("hello"))
		require.Error(t, err)

		exists, err := f.intake.Exists(context.Background(), "phone-1-15551234567", "1700000000")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Empty(t, f.sender.sent)
	})
}

func TestGetTranscriptIsNotWindowBounded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		role := entity.RoleHuman
		if i%2 == 1 {
			role = entity.RoleAI
		}
		_, err := f.store.Append(ctx, "session-1", role, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	entries, err := f.uc.GetTranscript(ctx, "session-1")
	require.NoError(t, err)

	require.Len(t, entries, 25)
	assert.Equal(t, "message 0", entries[0].Content)
	assert.Equal(t, entity.RoleLabelUser, entries[0].Role)
	assert.Equal(t, entity.RoleLabelAI, entries[1].Role)
	assert.Equal(t, "message 24", entries[24].Content)
}

func TestResolveSessionKey(t *testing.T) {
	assert.Equal(t, "user-42", ResolveSessionKey("user-42"))

	generated := ResolveSessionKey("")
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, generated, ResolveSessionKey(""))
}
