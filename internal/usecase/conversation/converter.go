package conversation

import "github.com/eduassist/chat-backend/internal/entity"

// FormatHistory renders stored messages as labeled history entries in the
// order they were given. Messages with an unknown role are skipped.
func FormatHistory(messages []*entity.ChatMessage) []entity.HistoryEntry {
	entries := make([]entity.HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		var label string
		switch msg.Role {
		case entity.RoleHuman:
			label = entity.RoleLabelUser
		case entity.RoleAI:
			label = entity.RoleLabelAI
		default:
			continue
		}
		entries = append(entries, entity.HistoryEntry{
			Role:    label,
			Content: msg.Content,
		})
	}
	return entries
}
