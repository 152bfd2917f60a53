package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eduassist/chat-backend/internal/api/middleware"
	"github.com/eduassist/chat-backend/internal/config"
	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/pkg/formatter"
	"github.com/eduassist/chat-backend/internal/pkg/logger"
	"github.com/eduassist/chat-backend/internal/pkg/response"
	"github.com/eduassist/chat-backend/internal/pkg/validator"
	usecase "github.com/eduassist/chat-backend/internal/usecase/conversation"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase       ConversationUsecase
	fileValidator *validator.FileValidator
	uploadCfg     config.FileUploadConfig
	files         FileStore
}

func NewHandler(
	usecase ConversationUsecase,
	fileValidator *validator.FileValidator,
	uploadCfg config.FileUploadConfig,
	files FileStore,
) *Handler {
	return &Handler{
		usecase:       usecase,
		fileValidator: fileValidator,
		uploadCfg:     uploadCfg,
		files:         files,
	}
}

// IndividualConversation handles POST /api/individual_conversation.
// The authenticated profile's ID number seeds the session key unless the
// request carries its own user_id; a blank key means a fresh session.
func (h *Handler) IndividualConversation(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "IndividualConversation")

	data, ok := h.decodeBody(ctx, w, r)
	if !ok {
		return
	}

	validation := validator.Validate(data, validator.IndividualConversationRules)
	if !validation.Passes() {
		h.respondValidationErrors(ctx, w, validation)
		return
	}

	validated := validation.Validated()
	callerID := stringField(validated, "user_id")
	if callerID == "" {
		if profile, ok := middleware.ProfileFromContext(ctx); ok {
			callerID = profile.IDNumber
		}
	}

	sessionKey := usecase.ResolveSessionKey(callerID)
	ctx = logger.AddFields(ctx, zap.String("session_key", sessionKey))

	result, err := h.usecase.Converse(ctx, sessionKey, stringField(validated, "message"))
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// ExpertConversation handles POST /api/experts_conversation. It always
// targets the reserved experts session regardless of who the caller is.
func (h *Handler) ExpertConversation(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExpertConversation")

	data, ok := h.decodeBody(ctx, w, r)
	if !ok {
		return
	}

	validation := validator.Validate(data, validator.ExpertConversationRules)
	if !validation.Passes() {
		h.respondValidationErrors(ctx, w, validation)
		return
	}

	result, err := h.usecase.Converse(ctx, entity.ExpertsSessionKey, stringField(validation.Validated(), "message"))
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// LegacyConversation handles POST /api/conversation, the URL-based flow kept
// for older clients. The source URL travels through validation only; the
// answer capability receives just the question.
func (h *Handler) LegacyConversation(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "LegacyConversation")

	data, ok := h.decodeBody(ctx, w, r)
	if !ok {
		return
	}

	validation := validator.Validate(data, validator.LegacyConversationRules)
	if !validation.Passes() {
		h.respondValidationErrors(ctx, w, validation)
		return
	}

	validated := validation.Validated()
	sessionKey := usecase.ResolveSessionKey(stringField(validated, "session_id"))
	ctx = logger.AddFields(ctx, zap.String("session_key", sessionKey))

	result, err := h.usecase.Converse(ctx, sessionKey, stringField(validated, "question"))
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.LegacyConversationResult{
		URL:        stringField(validated, "url"),
		Question:   result.Question,
		Answer:     result.Answer,
		SessionKey: sessionKey,
		Messages:   result.Messages,
	})
}

// GetTranscript handles GET /api/conversations/{session_key}/transcript.
// The format query parameter selects the export encoding, markdown by default.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionKey := chi.URLParam(r, "session_key")

	ctx = logger.AddFields(ctx,
		zap.String("session_key", sessionKey),
		zap.String("action", "GetTranscript"),
	)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.TranscriptFormatMarkdown)
	}

	format := entity.TranscriptFormat(formatParam)
	if !format.IsValid() {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		response.Error(w, http.StatusBadRequest, "format must be one of: markdown, pdf, docx")
		return
	}

	entries, err := h.usecase.GetTranscript(ctx, sessionKey)
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	fmtr, err := formatter.NewFactory().Create(format)
	if err != nil {
		ctxzap.Error(ctx, "format not implemented", zap.Error(err))
		response.Error(w, http.StatusNotImplemented, "format not implemented")
		return
	}

	body, err := fmtr.Format(entries)
	if err != nil {
		ctxzap.Error(ctx, "failed to format transcript", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format transcript")
		return
	}

	ctxzap.Info(ctx, "transcript exported", zap.Int("entries", len(entries)))
	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transcript-%s%s\"", sessionKey, fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Upload handles POST /api/upload: accept documents for the indexing
// pipeline and hand them to the file store. No further processing here.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	if err := r.ParseMultipartForm(h.uploadCfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	files := r.MultipartForm.File["files"]
	if err := h.fileValidator.ValidateUpload(files); err != nil {
		ctxzap.Warn(ctx, "upload rejected", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	stored := make([]entity.UploadedFileDTO, 0, len(files))
	for _, fh := range files {
		dto, err := h.files.Save(ctx, fh)
		if err != nil {
			ctxzap.Error(ctx, "failed to store upload",
				zap.String("filename", fh.Filename),
				zap.Error(err),
			)
			response.Error(w, http.StatusInternalServerError, "failed to store upload")
			return
		}
		stored = append(stored, *dto)
	}

	ctxzap.Info(ctx, "upload accepted", zap.Int("files", len(stored)))
	response.Created(w, map[string]any{"files": stored})
}

func (h *Handler) decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return data, true
}

func (h *Handler) respondValidationErrors(ctx context.Context, w http.ResponseWriter, validation *validator.Validation) {
	ctxzap.Warn(ctx, "request validation failed",
		zap.Int("failed_fields", len(validation.Errors())),
	)
	response.JSON(w, http.StatusUnprocessableEntity, entity.ValidationErrorResponse{
		Errors: validation.Errors(),
	})
}

func (h *Handler) respondUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "conversation request failed", zap.Error(err))
	response.Error(w, http.StatusInternalServerError, "internal server error")
}

func stringField(data map[string]any, field string) string {
	if value, ok := data[field].(string); ok {
		return value
	}
	return ""
}
