package entity

import "time"

// MessageRole marks who authored a transcript message.
type MessageRole string

const (
	RoleHuman MessageRole = "human"
	RoleAI    MessageRole = "ai"
)

// ExpertsSessionKey is the reserved session that collects escalated questions
// for human experts. Every escalation, regardless of the originating session,
// appends into this one transcript.
const ExpertsSessionKey = "expertsConversationForEducation"

// ChatMessage is one immutable entry of a session transcript. Insertion order
// (the ID sequence) is the authoritative ordering; there is no independent
// ordering key.
type ChatMessage struct {
	ID         int64
	SessionKey string
	Role       MessageRole
	Content    string
	CreatedAt  time.Time
}

// Prompt is a named, read-mostly prompt record used by the escalation
// capability. Created lazily on first use.
type Prompt struct {
	ID         string
	Name       string
	PromptText string
	CreatedAt  time.Time
}

// WhatsAppIntake records one accepted webhook message so that provider
// redeliveries of the same (session key, timestamp) pair can be dropped.
type WhatsAppIntake struct {
	SessionKey string
	Timestamp  string
	CreatedAt  time.Time
}

// UserProfile is the identity-service profile attached to authenticated
// requests. The ID number doubles as the caller-supplied session key.
type UserProfile struct {
	IDNumber string `json:"ID_number"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}
