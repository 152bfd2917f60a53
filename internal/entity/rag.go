package entity

// RAGAnswerRequest asks the retrieval service to answer one question given the
// session's current window.
type RAGAnswerRequest struct {
	Input   string         `json:"input"`
	History []HistoryEntry `json:"history"`
}

// RAGAnswerResponse echoes the input alongside the generated answer, matching
// the retrieval chain's response shape.
type RAGAnswerResponse struct {
	Answer string `json:"answer"`
	Input  string `json:"input"`
}

// EscalationNotNeeded is the literal sentinel the escalation capability
// returns when no human expert is required.
const EscalationNotNeeded = "false"

// EscalationRequest asks the expert model whether the generated answer
// actually answered the question. Prompt carries the system prompt text,
// bootstrapped from the prompts store.
type EscalationRequest struct {
	Answer string `json:"answer"`
	Input  string `json:"input"`
	Prompt string `json:"prompt"`
}

// EscalationResponse holds the expert model verdict: either the sentinel
// "false" or the escalation message to record for human experts.
type EscalationResponse struct {
	Result string `json:"result"`
}
