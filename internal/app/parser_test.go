package app

import (
	"testing"

	"github.com/ledgerline/instruction-service/internal/domain"
)

func mustParse(t *testing.T, raw string) *domain.ParsedInstruction {
	t.Helper()
	ins, failure := parseInstruction(raw)
	if failure != nil {
		t.Fatalf("expected %q to parse, got %s (%s)", raw, failure.code, failure.reason)
	}
	return ins
}

func mustFail(t *testing.T, raw string) *evaluationFailure {
	t.Helper()
	ins, failure := parseInstruction(raw)
	if failure == nil {
		t.Fatalf("expected %q to fail, got %+v", raw, ins)
	}
	return failure
}

func TestParseInstruction_DebitGrammar(t *testing.T) {
	ins := mustParse(t, "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2")

	if ins.Type != domain.TypeDebit {
		t.Fatalf("expected type DEBIT, got %s", ins.Type)
	}
	if ins.Amount != 100 {
		t.Fatalf("expected amount 100, got %d", ins.Amount)
	}
	if ins.Currency != "NGN" {
		t.Fatalf("expected currency NGN, got %s", ins.Currency)
	}
	if ins.DebitAccountID != "A1" || ins.CreditAccountID != "A2" {
		t.Fatalf("expected debit A1 credit A2, got %s / %s", ins.DebitAccountID, ins.CreditAccountID)
	}
	if ins.ExecuteBy != "" {
		t.Fatalf("expected immediate instruction, got execute_by %q", ins.ExecuteBy)
	}
}

func TestParseInstruction_CreditGrammarSwapsRoles(t *testing.T) {
	ins := mustParse(t, "CREDIT 20 USD TO ACCOUNT B2 FOR DEBIT FROM ACCOUNT B1")

	if ins.Type != domain.TypeCredit {
		t.Fatalf("expected type CREDIT, got %s", ins.Type)
	}
	if ins.DebitAccountID != "B1" {
		t.Fatalf("expected debit account B1, got %s", ins.DebitAccountID)
	}
	if ins.CreditAccountID != "B2" {
		t.Fatalf("expected credit account B2, got %s", ins.CreditAccountID)
	}
}

func TestParseInstruction_NormalizesWhitespaceAndCase(t *testing.T) {
	ins := mustParse(t, "  debit \t 100\nngn   from account A1 for credit to account A2 \r\n on 2024-06-01 ")

	if ins.Type != domain.TypeDebit || ins.Currency != "NGN" {
		t.Fatalf("expected uppercased type and currency, got %s / %s", ins.Type, ins.Currency)
	}
	if ins.ExecuteBy != "2024-06-01" {
		t.Fatalf("expected execute_by 2024-06-01, got %q", ins.ExecuteBy)
	}
}

func TestParseInstruction_AccountIDCaseIsPreserved(t *testing.T) {
	ins := mustParse(t, "DEBIT 5 GHS FROM ACCOUNT alice@bank.co FOR CREDIT TO ACCOUNT Bob-2")

	if ins.DebitAccountID != "alice@bank.co" {
		t.Fatalf("expected account id to keep its case, got %s", ins.DebitAccountID)
	}
	if ins.CreditAccountID != "Bob-2" {
		t.Fatalf("expected account id to keep its case, got %s", ins.CreditAccountID)
	}
}

func TestParseInstruction_ErrorCodes(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantCode string
	}{
		{"empty instruction", "", domain.CodeMalformedInstruction},
		{"whitespace only", "   \t\n  ", domain.CodeMalformedInstruction},
		{"too few tokens", "DEBIT 100 NGN", domain.CodeMalformedInstruction},
		{"unknown leading keyword", "TRANSFER 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeMalformedInstruction},
		{"negative amount", "DEBIT -5 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAmount},
		{"signed amount", "DEBIT +5 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAmount},
		{"zero amount", "DEBIT 0 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAmount},
		{"all zero amount", "DEBIT 000 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAmount},
		{"decimal amount", "DEBIT 10.5 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAmount},
		{"overflowing amount", "DEBIT 99999999999999999999 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAmount},
		{"unsupported currency", "DEBIT 30 XYZ FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeUnsupportedCurrency},
		{"debit near keywords wrong", "DEBIT 100 NGN INTO ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidKeywordOrder},
		{"debit far keywords wrong", "DEBIT 100 NGN FROM ACCOUNT A1 FOR DEBIT TO ACCOUNT A2", domain.CodeInvalidKeywordOrder},
		{"credit near keywords wrong", "CREDIT 100 NGN FROM ACCOUNT A1 FOR DEBIT FROM ACCOUNT A2", domain.CodeInvalidKeywordOrder},
		{"credit far keywords wrong", "CREDIT 100 NGN TO ACCOUNT A1 FOR CREDIT FROM ACCOUNT A2", domain.CodeInvalidKeywordOrder},
		{"truncated after near keywords", "DEBIT 100 NGN FROM ACCOUNT", domain.CodeInvalidAccountID},
		{"truncated after near account", "DEBIT 100 NGN FROM ACCOUNT A1", domain.CodeInvalidKeywordOrder},
		{"truncated before far account", "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT", domain.CodeInvalidAccountID},
		{"bad near account id", "DEBIT 100 NGN FROM ACCOUNT A#1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAccountID},
		{"bad far account id", "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A!2", domain.CodeInvalidAccountID},
		{"non ascii account id", "DEBIT 100 NGN FROM ACCOUNT Aé1 FOR CREDIT TO ACCOUNT A2", domain.CodeInvalidAccountID},
		{"short date", "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 ON 2024-6-1", domain.CodeInvalidDateFormat},
		{"date wrong separators", "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 ON 2024/06/01", domain.CodeInvalidDateFormat},
		{"date with letters", "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 ON 2024-JU-01", domain.CodeInvalidDateFormat},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := mustFail(t, tc.raw)
			if failure.code != tc.wantCode {
				t.Fatalf("expected code %s, got %s (%s)", tc.wantCode, failure.code, failure.reason)
			}
		})
	}
}

func TestParseInstruction_AmountCheckedBeforeCurrency(t *testing.T) {
	failure := mustFail(t, "DEBIT abc XYZ FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2")
	if failure.code != domain.CodeInvalidAmount {
		t.Fatalf("expected AM01 to win over CU02, got %s", failure.code)
	}
}

func TestParseInstruction_CurrencyCheckedBeforeKeywords(t *testing.T) {
	// Both the currency and the keyword order are wrong; the currency
	// gate fires first.
	failure := mustFail(t, "DEBIT 30 XYZ INTO ACCOUNT A1 FOR CREDIT TO ACCOUNT A2")
	if failure.code != domain.CodeUnsupportedCurrency {
		t.Fatalf("expected CU02 to win over SY02, got %s", failure.code)
	}
}

func TestParseInstruction_NearAccountCheckedBeforeFarKeywords(t *testing.T) {
	failure := mustFail(t, "DEBIT 100 NGN FROM ACCOUNT A#1 XXX CREDIT TO ACCOUNT A2")
	if failure.code != domain.CodeInvalidAccountID {
		t.Fatalf("expected AC04 to win over SY02, got %s", failure.code)
	}
}

func TestParseInstruction_AmountFailureCarriesTypeAndCurrencyOnly(t *testing.T) {
	failure := mustFail(t, "DEBIT abc NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2")

	if failure.fields.Type == nil || *failure.fields.Type != domain.TypeDebit {
		t.Fatalf("expected type in failure context, got %+v", failure.fields.Type)
	}
	if failure.fields.Currency == nil || *failure.fields.Currency != "NGN" {
		t.Fatalf("expected currency in failure context, got %+v", failure.fields.Currency)
	}
	if failure.fields.Amount != nil {
		t.Fatalf("expected nil amount for an invalid literal, got %d", *failure.fields.Amount)
	}
	if failure.fields.DebitAccountID != nil || failure.fields.CreditAccountID != nil {
		t.Fatal("expected account ids to be nil before the grammar ran")
	}
}

func TestParseInstruction_CurrencyFailureCarriesParsedAmount(t *testing.T) {
	failure := mustFail(t, "DEBIT 30 XYZ FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2")

	if failure.fields.Amount == nil || *failure.fields.Amount != 30 {
		t.Fatalf("expected amount 30 in failure context, got %+v", failure.fields.Amount)
	}
}

func TestParseInstruction_KeywordFailureRetainsParsedNearAccount(t *testing.T) {
	failure := mustFail(t, "DEBIT 100 NGN FROM ACCOUNT A1 XXX CREDIT TO ACCOUNT A2")

	if failure.code != domain.CodeInvalidKeywordOrder {
		t.Fatalf("expected SY02, got %s", failure.code)
	}
	if failure.fields.DebitAccountID == nil || *failure.fields.DebitAccountID != "A1" {
		t.Fatalf("expected near account retained in failure context, got %+v", failure.fields.DebitAccountID)
	}
	if failure.fields.CreditAccountID != nil {
		t.Fatal("expected far account to be nil when its keywords never matched")
	}
}

func TestParseInstruction_MissingAccountTokenFailsWithNilID(t *testing.T) {
	failure := mustFail(t, "CREDIT 100 NGN TO ACCOUNT")

	if failure.code != domain.CodeInvalidAccountID {
		t.Fatalf("expected AC04 for a missing account token, got %s", failure.code)
	}
	if failure.fields.CreditAccountID != nil {
		t.Fatalf("expected nil credit account id, got %q", *failure.fields.CreditAccountID)
	}
}

func TestParseInstruction_LeadingZeroAmountParses(t *testing.T) {
	ins := mustParse(t, "DEBIT 007 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2")
	if ins.Amount != 7 {
		t.Fatalf("expected amount 7, got %d", ins.Amount)
	}
}

func TestParseInstruction_LenientDateShapeAccepted(t *testing.T) {
	// The shape check has no calendar validation; 9999-99-99 is accepted.
	ins := mustParse(t, "DEBIT 10 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 ON 9999-99-99")
	if ins.ExecuteBy != "9999-99-99" {
		t.Fatalf("expected execute_by 9999-99-99, got %q", ins.ExecuteBy)
	}
}

func TestParseInstruction_TrailingNonOnTokenIsIgnored(t *testing.T) {
	ins := mustParse(t, "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 PLEASE")
	if ins.ExecuteBy != "" {
		t.Fatalf("expected no execute_by, got %q", ins.ExecuteBy)
	}
}

func TestParseInstruction_OnWithoutDateMeansImmediate(t *testing.T) {
	ins := mustParse(t, "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 ON")
	if ins.ExecuteBy != "" {
		t.Fatalf("expected no execute_by when the date token is missing, got %q", ins.ExecuteBy)
	}
}

func TestParseInstruction_TokensPastDateAreIgnored(t *testing.T) {
	ins := mustParse(t, "DEBIT 100 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2 ON 2024-06-01 THANKS")
	if ins.ExecuteBy != "2024-06-01" {
		t.Fatalf("expected execute_by 2024-06-01, got %q", ins.ExecuteBy)
	}
}

func TestNormalizeSpaces(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"a  b", "a b"},
		{"\ta\nb\r", "a b"},
		{" DEBIT  100 ", "DEBIT 100"},
	}
	for _, tc := range cases {
		if got := normalizeSpaces(tc.in); got != tc.want {
			t.Fatalf("normalizeSpaces(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidDateShape(t *testing.T) {
	valid := []string{"2024-06-01", "0000-00-00", "9999-99-99"}
	for _, s := range valid {
		if !isValidDateShape(s) {
			t.Fatalf("expected %q to pass the shape check", s)
		}
	}
	invalid := []string{"", "2024-6-1", "2024-06-011", "2024_06_01", "20240601ab", "abcd-ef-gh"}
	for _, s := range invalid {
		if isValidDateShape(s) {
			t.Fatalf("expected %q to fail the shape check", s)
		}
	}
}
