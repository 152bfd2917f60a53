package entity

// Role labels used when rendering a transcript for display.
const (
	RoleLabelAI   = "AI:"
	RoleLabelUser = "User:"
)

// HistoryEntry is one role-tagged line of a rendered transcript.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationResult is the terminal payload of a conversation request.
// History-only requests carry Messages alone; answered requests carry all
// three fields.
type ConversationResult struct {
	Question string         `json:"question,omitempty"`
	Answer   string         `json:"answer,omitempty"`
	Messages []HistoryEntry `json:"messages"`
}

// LegacyConversationResult is the response of the URL-based conversation flow.
type LegacyConversationResult struct {
	URL        string         `json:"url"`
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	SessionKey string         `json:"session_id"`
	Messages   []HistoryEntry `json:"messages"`
}

// ValidationErrorResponse is the 422 body: field name to ordered error strings.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// TranscriptFormat selects the transcript export encoding.
type TranscriptFormat string

const (
	TranscriptFormatMarkdown TranscriptFormat = "markdown"
	TranscriptFormatPDF      TranscriptFormat = "pdf"
	TranscriptFormatDOCX     TranscriptFormat = "docx"
)

func (f TranscriptFormat) IsValid() bool {
	switch f {
	case TranscriptFormatMarkdown, TranscriptFormatPDF, TranscriptFormatDOCX:
		return true
	}
	return false
}

// UploadedFileDTO describes one stored upload in the upload response.
type UploadedFileDTO struct {
	Filename    string `json:"filename"`
	StoredAs    string `json:"stored_as"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
