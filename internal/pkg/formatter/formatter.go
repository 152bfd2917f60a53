package formatter

import (
	"fmt"

	"github.com/eduassist/chat-backend/internal/entity"
)

const transcriptTitle = "Conversation Transcript"

// Formatter renders a full session transcript into one downloadable document.
type Formatter interface {
	Format(entries []entity.HistoryEntry) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.TranscriptFormat) (Formatter, error) {
	switch format {
	case entity.TranscriptFormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.TranscriptFormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.TranscriptFormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
