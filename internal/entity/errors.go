package entity

import "errors"

// Domain errors
var (
	// Auth errors
	ErrTokenMissing = errors.New("token is missing or invalid")
	ErrForbidden    = errors.New("forbidden")

	// Conversation errors
	ErrPromptNotFound         = errors.New("prompt not found")
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	ErrDuplicateDelivery      = errors.New("message already processed")

	// Upload errors
	ErrMissingField      = errors.New("required field is missing")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")
)
