package app

import (
	"strings"

	"github.com/ledgerline/instruction-service/internal/domain"
)

// findAccount returns the first snapshot entry whose id equals the given
// id exactly. Duplicate ids in a snapshot are a caller error; the first
// match wins and later entries are never consulted.
func findAccount(accounts []domain.Account, id string) (domain.Account, bool) {
	for _, acc := range accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return domain.Account{}, false
}

func snapshotState(acc domain.Account) domain.AccountState {
	return domain.AccountState{
		ID:            acc.ID,
		Currency:      strings.ToUpper(acc.Currency),
		Balance:       acc.Balance,
		BalanceBefore: acc.Balance,
	}
}

// failureOutcome assembles the outcome for every failed gate. The
// accounts section is populated only when both account ids were parsed,
// and then only with the ids that resolve against the snapshot, debit
// side first, each with its balance untouched.
func failureOutcome(fields failureFields, code, reason string, accounts []domain.Account) *domain.Outcome {
	out := &domain.Outcome{
		Type:          fields.Type,
		Amount:        fields.Amount,
		Currency:      fields.Currency,
		DebitAccount:  fields.DebitAccountID,
		CreditAccount: fields.CreditAccountID,
		ExecuteBy:     fields.ExecuteBy,
		Status:        domain.StatusFailed,
		StatusReason:  reason,
		StatusCode:    code,
		Accounts:      []domain.AccountState{},
	}

	if fields.DebitAccountID != nil && fields.CreditAccountID != nil {
		if acc, ok := findAccount(accounts, *fields.DebitAccountID); ok {
			out.Accounts = append(out.Accounts, snapshotState(acc))
		}
		if acc, ok := findAccount(accounts, *fields.CreditAccountID); ok {
			out.Accounts = append(out.Accounts, snapshotState(acc))
		}
	}

	return out
}

// settledOutcome assembles the outcome for an instruction that cleared
// every gate. When immediate, the amount moves between the computed
// balances; when future-dated, both balances are reported unchanged and
// the status is pending.
func settledOutcome(ins *domain.ParsedInstruction, debit, credit domain.Account, immediate bool) *domain.Outcome {
	status := domain.StatusPending
	code := domain.CodeTransactionPending
	reason := domain.ReasonTransactionPending

	debitBalance := debit.Balance
	creditBalance := credit.Balance
	if immediate {
		debitBalance -= ins.Amount
		creditBalance += ins.Amount
		status = domain.StatusSuccessful
		code = domain.CodeTransactionSuccess
		reason = domain.ReasonTransactionSuccess
	}

	var executeBy *string
	if ins.ExecuteBy != "" {
		executeBy = &ins.ExecuteBy
	}

	return &domain.Outcome{
		Type:          &ins.Type,
		Amount:        &ins.Amount,
		Currency:      &ins.Currency,
		DebitAccount:  &ins.DebitAccountID,
		CreditAccount: &ins.CreditAccountID,
		ExecuteBy:     executeBy,
		Status:        status,
		StatusReason:  reason,
		StatusCode:    code,
		Accounts: []domain.AccountState{
			{
				ID:            debit.ID,
				Currency:      strings.ToUpper(debit.Currency),
				Balance:       debitBalance,
				BalanceBefore: debit.Balance,
			},
			{
				ID:            credit.ID,
				Currency:      strings.ToUpper(credit.Currency),
				Balance:       creditBalance,
				BalanceBefore: credit.Balance,
			},
		},
	}
}
