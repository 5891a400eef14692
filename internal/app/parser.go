/**
 * @description
 * This file implements the instruction grammar parser: whitespace
 * normalization, tokenization, the two positional grammar variants, and
 * the field validators for amounts, currencies, account ids, and dates.
 *
 * The two grammars are near-identical:
 *
 *   DEBIT  <amount> <currency> FROM ACCOUNT <debitId> FOR CREDIT TO ACCOUNT <creditId> [ON <date>]
 *   CREDIT <amount> <currency> TO ACCOUNT <creditId> FOR DEBIT FROM ACCOUNT <debitId> [ON <date>]
 *
 * so each is expressed as a declarative keyword/slot table consumed by one
 * generic matcher; adding a third variant is a table entry, not new code.
 *
 * @notes
 * - Validation order is a compatibility contract: amount before currency,
 *   currency before grammar keywords, the near account slot before the far
 *   one, date shape only after the full grammar has matched. Each failure
 *   carries exactly the fields already parsed when it fired.
 */

package app

import (
	"strconv"
	"strings"

	"github.com/ledgerline/instruction-service/internal/domain"
)

var supportedCurrencies = []string{"NGN", "USD", "GBP", "GHS"}

// accountRole identifies which side of the transfer a grammar slot binds.
type accountRole int

const (
	roleDebit accountRole = iota
	roleCredit
)

// grammarSegment is a run of fixed keywords followed by one account-id
// slot. Positions are implied: the first segment starts at token 3, and
// each token consumes one position.
type grammarSegment struct {
	keywords []string
	role     accountRole
}

// grammars maps the leading instruction token to its variant. Both
// variants place the near account at token 5 and the far account at
// token 10, with an optional "ON <date>" pair at tokens 11-12.
var grammars = map[string][]grammarSegment{
	domain.TypeDebit: {
		{keywords: []string{"FROM", "ACCOUNT"}, role: roleDebit},
		{keywords: []string{"FOR", "CREDIT", "TO", "ACCOUNT"}, role: roleCredit},
	},
	domain.TypeCredit: {
		{keywords: []string{"TO", "ACCOUNT"}, role: roleCredit},
		{keywords: []string{"FOR", "DEBIT", "FROM", "ACCOUNT"}, role: roleDebit},
	},
}

// failureFields is the partial instruction context attached to a failed
// gate: whatever had been parsed and validated before the gate fired.
// Nil fields serialize as JSON null in the outcome.
type failureFields struct {
	Type            *string
	Amount          *int64
	Currency        *string
	DebitAccountID  *string
	CreditAccountID *string
	ExecuteBy       *string
}

// evaluationFailure is a terminal pipeline state: a status code, its
// reason, and the partial context to report alongside it.
type evaluationFailure struct {
	fields failureFields
	code   string
	reason string
}

func fail(fields failureFields, code, reason string) *evaluationFailure {
	return &evaluationFailure{fields: fields, code: code, reason: reason}
}

// normalizeSpaces collapses every run of whitespace (space, tab, newline,
// carriage return) into a single space and trims both ends.
func normalizeSpaces(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, ch := range text {
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		b.WriteRune(ch)
		prevSpace = false
	}
	return strings.TrimSpace(b.String())
}

// isPositiveIntegerLiteral reports whether s is one or more ASCII digits
// with no sign and at least one non-zero digit. Leading zeros are allowed.
func isPositiveIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	allZero := true
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		if s[i] != '0' {
			allZero = false
		}
	}
	return !allZero
}

// isValidAccountID reports whether every character of id is an ASCII
// letter, digit, or one of '-', '.', '@'.
func isValidAccountID(id string) bool {
	if id == "" {
		return false
	}
	for _, ch := range id {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'A' && ch <= 'Z':
		case ch >= 'a' && ch <= 'z':
		case ch == '-' || ch == '.' || ch == '@':
		default:
			return false
		}
	}
	return true
}

// isValidDateShape checks the YYYY-MM-DD shape: exactly 10 characters,
// dashes at positions 4 and 7, digits everywhere else. There is no
// calendar validation; "9999-99-99" passes. Lexical comparison of these
// strings still orders them correctly because they are zero-padded.
func isValidDateShape(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 10; i++ {
		if i == 4 || i == 7 {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSupportedCurrency(code string) bool {
	for _, c := range supportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// expectToken reports whether tokens has a token at idx matching expected
// case-insensitively. A missing token is a mismatch, not a panic.
func expectToken(tokens []string, idx int, expected string) bool {
	return idx < len(tokens) && strings.EqualFold(tokens[idx], expected)
}

// parseInstruction runs the normalizer, tokenizer, grammar matcher, and
// field validators over a raw instruction. It returns either a fully
// matched instruction or the terminal failure of the earliest violated
// gate, never both.
func parseInstruction(raw string) (*domain.ParsedInstruction, *evaluationFailure) {
	if raw == "" {
		return nil, fail(failureFields{}, domain.CodeMalformedInstruction, domain.ReasonMalformedInstruction)
	}

	tokens := strings.Split(normalizeSpaces(raw), " ")
	if len(tokens) < 4 {
		return nil, fail(failureFields{}, domain.CodeMalformedInstruction, domain.ReasonMalformedInstruction)
	}

	typeToken := strings.ToUpper(tokens[0])
	segments, ok := grammars[typeToken]
	if !ok {
		return nil, fail(failureFields{}, domain.CodeMalformedInstruction, domain.ReasonMalformedInstruction)
	}

	// Token 1 is the amount literal, token 2 the currency literal; both
	// are validated before any grammar-specific keyword so that their
	// failures surface with type and currency populated but accounts nil.
	currency := strings.ToUpper(tokens[2])
	fields := failureFields{Type: &typeToken, Currency: &currency}

	amountToken := tokens[1]
	if !isPositiveIntegerLiteral(amountToken) {
		return nil, fail(fields, domain.CodeInvalidAmount, domain.ReasonInvalidAmount)
	}
	amount, err := strconv.ParseInt(amountToken, 10, 64)
	if err != nil {
		// The digit scan already passed, so only overflow lands here.
		return nil, fail(fields, domain.CodeInvalidAmount, domain.ReasonInvalidAmount)
	}
	fields.Amount = &amount

	if !isSupportedCurrency(currency) {
		return nil, fail(fields, domain.CodeUnsupportedCurrency, domain.ReasonUnsupportedCurrency)
	}

	ins := domain.ParsedInstruction{
		Type:     typeToken,
		Amount:   amount,
		Currency: currency,
	}

	pos := 3
	for _, seg := range segments {
		for _, kw := range seg.keywords {
			if !expectToken(tokens, pos, kw) {
				return nil, fail(fields, domain.CodeInvalidKeywordOrder, domain.ReasonInvalidKeywordOrder)
			}
			pos++
		}

		var id *string
		if pos < len(tokens) {
			id = &tokens[pos]
		}
		if seg.role == roleDebit {
			fields.DebitAccountID = id
		} else {
			fields.CreditAccountID = id
		}
		if id == nil || !isValidAccountID(*id) {
			return nil, fail(fields, domain.CodeInvalidAccountID, domain.ReasonInvalidAccountID)
		}
		if seg.role == roleDebit {
			ins.DebitAccountID = *id
		} else {
			ins.CreditAccountID = *id
		}
		pos++
	}

	// Optional trailing "ON <date>". A token other than ON at this
	// position is ignored, as is anything past the date token.
	if expectToken(tokens, pos, "ON") && pos+1 < len(tokens) {
		ins.ExecuteBy = tokens[pos+1]
		fields.ExecuteBy = &ins.ExecuteBy
	}

	if ins.ExecuteBy != "" && !isValidDateShape(ins.ExecuteBy) {
		return nil, fail(fields, domain.CodeInvalidDateFormat, domain.ReasonInvalidDateFormat)
	}

	return &ins, nil
}
