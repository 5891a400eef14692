/**
 * @description
 * This file defines the core domain models for the instruction-service.
 * These structs represent the entities exchanged between the transport
 * layers (HTTP handler, queue consumer) and the evaluation pipeline.
 *
 * @notes
 * - Balances and amounts are `int64` in the smallest currency unit (kobo,
 *   cents, pesewas), which avoids floating-point inaccuracies with
 *   financial data.
 * - The service is stateless: accounts arrive inside each request and the
 *   caller owns persistence of any computed balance changes.
 */

package domain

// Instruction types recognized by the grammar parser. The leading token of
// an instruction selects which of the two grammar variants applies.
const (
	TypeDebit  = "DEBIT"
	TypeCredit = "CREDIT"
)

// Account is one entry of the caller-supplied account snapshot. It is
// read-only to the evaluation pipeline; new balances are computed into
// AccountState values rather than mutated here.
type Account struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// ParsedInstruction is the structured form of an instruction after a
// grammar variant has fully matched. Account ids are present and
// syntactically valid before business validation runs.
type ParsedInstruction struct {
	Type            string
	Amount          int64
	Currency        string
	DebitAccountID  string
	CreditAccountID string
	ExecuteBy       string // YYYY-MM-DD, empty means immediate
}

// EvaluationRequest is the boundary input: one raw instruction plus the
// account snapshot to evaluate it against.
type EvaluationRequest struct {
	Instruction string    `json:"instruction"`
	Accounts    []Account `json:"accounts"`
}

// EvaluationResult pairs the outcome payload with the HTTP status the
// transport layer should map it to. HTTPCode is 200 only when the outcome
// status is successful or pending; every validation or business failure
// maps to 400.
type EvaluationResult struct {
	HTTPCode int      `json:"http_code"`
	Outcome  *Outcome `json:"outcome"`
}
