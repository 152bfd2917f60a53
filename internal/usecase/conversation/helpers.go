package conversation

import (
	"context"
	"errors"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/google/uuid"
)

const unsupportedTypeReply = "Sorry, but we are unable to accept files through this channel"

const expertPromptName = "prompt_for_expert"

const defaultExpertPromptText = `Carefully analyze the input: {input}. If the {input} contains phrases or expressions explicitly indicating that the user does not know, does not have the information, or cannot answer the question (such as "I don't know," "I don't have information," "I'm not sure," "I cannot answer," "Sorry, but I don't know about," or similar phrases in any language), then respond briefly in the input language with: I need expert help to answer the question: {question}. If the input contains no such explicit statements, respond with a single word in English: false.`

// ResolveSessionKey picks the transcript key for anonymous web flows: the
// caller-supplied identifier when present, otherwise a fresh one.
func ResolveSessionKey(callerID string) string {
	if callerID != "" {
		return callerID
	}
	return uuid.NewString()
}

// ensureEscalationPrompt returns the expert prompt record, creating it with
// the default text on first use.
func (uc *ConversationUsecase) ensureEscalationPrompt(ctx context.Context) (*entity.Prompt, error) {
	prompt, err := uc.promptRepo.GetByName(ctx, expertPromptName)
	if err == nil {
		return prompt, nil
	}
	if !errors.Is(err, entity.ErrPromptNotFound) {
		return nil, err
	}

	return uc.promptRepo.Create(ctx, expertPromptName, defaultExpertPromptText)
}
