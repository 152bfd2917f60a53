package conversation

import (
	"context"
	"mime/multipart"

	"github.com/eduassist/chat-backend/internal/entity"
)

type ConversationUsecase interface {
	Converse(ctx context.Context, sessionKey, message string) (*entity.ConversationResult, error)
	GetTranscript(ctx context.Context, sessionKey string) ([]entity.HistoryEntry, error)
}

// FileStore persists uploaded documents for the indexing pipeline.
type FileStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (*entity.UploadedFileDTO, error)
}
