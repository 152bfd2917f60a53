package validator

// Rule tables for the conversation request kinds. The kinds differ only in
// their declared rules, so they are data driving one engine rather than
// separate request types.
var (
	// IndividualConversationRules covers POST /api/individual_conversation.
	// Both fields are optional: an empty message turns the request into a
	// history-only read, and a blank user id means a fresh session.
	IndividualConversationRules = RuleSet{
		"message": {"sometimes", "min:1"},
		"user_id": {"sometimes", "min:1"},
	}

	// ExpertConversationRules covers POST /api/experts_conversation, which
	// always targets the reserved experts session.
	ExpertConversationRules = RuleSet{
		"message": {"sometimes", "min:1"},
	}

	// LegacyConversationRules covers the URL-based flow kept for older
	// clients: the source URL and question are mandatory there.
	LegacyConversationRules = RuleSet{
		"url":        {"required", "url"},
		"question":   {"required", "min:1"},
		"session_id": {"sometimes"},
	}
)
