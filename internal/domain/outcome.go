package domain

// Outcome statuses.
const (
	StatusFailed     = "failed"
	StatusPending    = "pending"
	StatusSuccessful = "successful"
)

// Status codes. The codes and their gate ordering form a stable contract
// with existing consumers and must not be renumbered.
const (
	CodeMalformedInstruction = "SY03"
	CodeInvalidKeywordOrder  = "SY02"
	CodeInvalidAmount        = "AM01"
	CodeUnsupportedCurrency  = "CU02"
	CodeInvalidAccountID     = "AC04"
	CodeInvalidDateFormat    = "DT01"
	CodeAccountNotFound      = "AC03"
	CodeSameAccount          = "AC02"
	CodeCurrencyMismatch     = "CU01"
	CodeInsufficientFunds    = "AC01"
	CodeTransactionSuccess   = "AP00"
	CodeTransactionPending   = "AP02"
)

// Human-readable reasons paired with each status code.
const (
	ReasonMalformedInstruction = "Malformed instruction: unable to parse keywords"
	ReasonInvalidKeywordOrder  = "Invalid keyword order"
	ReasonInvalidAmount        = "Amount must be a positive integer"
	ReasonUnsupportedCurrency  = "Only NGN, USD, GBP, and GHS are supported"
	ReasonInvalidAccountID     = "Invalid account ID format"
	ReasonInvalidDateFormat    = "Date must be in YYYY-MM-DD format"
	ReasonAccountNotFound      = "Account not found"
	ReasonSameAccount          = "Debit and credit accounts cannot be the same"
	ReasonCurrencyMismatch     = "Account currency mismatch"
	ReasonInsufficientFunds    = "Insufficient funds in debit account"
	ReasonTransactionSuccess   = "Transaction executed successfully"
	ReasonTransactionPending   = "Transaction scheduled for future execution"
)

// AccountState is an account's position in an outcome: the balance after
// the evaluation alongside the balance it entered with. On every path
// except immediate settlement the two are equal.
type AccountState struct {
	ID            string `json:"id"`
	Currency      string `json:"currency"`
	Balance       int64  `json:"balance"`
	BalanceBefore int64  `json:"balance_before"`
}

// Outcome is the single result structure produced for success and every
// failure alike. Pointer fields are nil when the corresponding part of the
// instruction had not been parsed when the pipeline terminated; they
// serialize as JSON null.
type Outcome struct {
	Type          *string        `json:"type"`
	Amount        *int64         `json:"amount"`
	Currency      *string        `json:"currency"`
	DebitAccount  *string        `json:"debit_account"`
	CreditAccount *string        `json:"credit_account"`
	ExecuteBy     *string        `json:"execute_by"`
	Status        string         `json:"status"`
	StatusReason  string         `json:"status_reason"`
	StatusCode    string         `json:"status_code"`
	Accounts      []AccountState `json:"accounts"`
}
