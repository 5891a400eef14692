package domain

import "time"

// QueuedEvaluationRequest is the message consumed from the instruction
// queue. RequestID correlates the published outcome with the submitter;
// when absent one is generated before evaluation.
type QueuedEvaluationRequest struct {
	RequestID   string    `json:"request_id"`
	Instruction string    `json:"instruction"`
	Accounts    []Account `json:"accounts"`
}

// OutcomeEvent is published after a queued instruction has been
// evaluated. HTTPCode carries the same 200/400 classification the HTTP
// boundary uses so queue consumers can branch without inspecting codes.
type OutcomeEvent struct {
	RequestID   string    `json:"request_id"`
	HTTPCode    int       `json:"http_code"`
	Outcome     *Outcome  `json:"outcome"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}
