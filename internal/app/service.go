/**
 * @description
 * This file contains the core application service for the
 * instruction-service: the ordered evaluation pipeline that turns a raw
 * payment instruction plus an account snapshot into a fully coded outcome.
 *
 * The pipeline is strictly linear: parse, resolve accounts, run the
 * business gates, then execute. Every stage can short-circuit to the
 * outcome builder with the status code of the earliest violated gate, so
 * the gates are modeled as an ordered slice of fallible steps over one
 * evaluation value rather than scattered early returns.
 *
 * @notes
 * - Evaluation is pure and reentrant: no shared state, no I/O, nothing to
 *   cancel. Concurrent calls never interact because each gets its own
 *   snapshot and produces its own outcome.
 * - The current date is read exactly once per evaluation and used as a
 *   single consistent value throughout it.
 */

package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/ledgerline/instruction-service/internal/domain"
)

// Service evaluates payment instructions. It holds no state beyond the
// clock, which is injectable for tests.
type Service struct {
	today func() string
}

// NewService creates a Service that reads the current UTC date for
// immediate-vs-pending decisions.
func NewService() *Service {
	return &Service{
		today: func() string {
			return time.Now().UTC().Format("2006-01-02")
		},
	}
}

// evaluation threads the pipeline state through the business gates: the
// matched instruction, the caller's snapshot, and the resolved accounts.
type evaluation struct {
	ins      *domain.ParsedInstruction
	accounts []domain.Account
	debit    domain.Account
	credit   domain.Account
}

// gate is one ordered business check. A nil return means the pipeline
// continues; a non-nil outcome terminates it.
type gate func(*evaluation) *domain.Outcome

// Evaluate runs the full pipeline for one request. It never returns an
// error: every failure is a typed outcome with a stable status code, and
// HTTPCode is 200 only for successful or pending outcomes.
func (s *Service) Evaluate(req domain.EvaluationRequest) domain.EvaluationResult {
	ins, failure := parseInstruction(req.Instruction)
	if failure != nil {
		return domain.EvaluationResult{
			HTTPCode: http.StatusBadRequest,
			Outcome:  failureOutcome(failure.fields, failure.code, failure.reason, req.Accounts),
		}
	}

	ev := &evaluation{ins: ins, accounts: req.Accounts}
	gates := []gate{
		s.resolveAccounts,
		s.requireDistinctAccounts,
		s.requireMatchingCurrencies,
		s.requireSufficientFunds,
	}
	for _, g := range gates {
		if out := g(ev); out != nil {
			return domain.EvaluationResult{HTTPCode: http.StatusBadRequest, Outcome: out}
		}
	}

	return domain.EvaluationResult{HTTPCode: http.StatusOK, Outcome: s.execute(ev)}
}

// businessFailure builds a failure outcome carrying the full parsed
// instruction; every business gate runs only after the grammar matched.
func (ev *evaluation) businessFailure(code, reason string) *domain.Outcome {
	fields := failureFields{
		Type:            &ev.ins.Type,
		Amount:          &ev.ins.Amount,
		Currency:        &ev.ins.Currency,
		DebitAccountID:  &ev.ins.DebitAccountID,
		CreditAccountID: &ev.ins.CreditAccountID,
	}
	if ev.ins.ExecuteBy != "" {
		fields.ExecuteBy = &ev.ins.ExecuteBy
	}
	return failureOutcome(fields, code, reason, ev.accounts)
}

func (s *Service) resolveAccounts(ev *evaluation) *domain.Outcome {
	debit, debitFound := findAccount(ev.accounts, ev.ins.DebitAccountID)
	credit, creditFound := findAccount(ev.accounts, ev.ins.CreditAccountID)
	if !debitFound || !creditFound {
		return ev.businessFailure(domain.CodeAccountNotFound, domain.ReasonAccountNotFound)
	}
	ev.debit = debit
	ev.credit = credit
	return nil
}

func (s *Service) requireDistinctAccounts(ev *evaluation) *domain.Outcome {
	if ev.ins.DebitAccountID == ev.ins.CreditAccountID {
		return ev.businessFailure(domain.CodeSameAccount, domain.ReasonSameAccount)
	}
	return nil
}

func (s *Service) requireMatchingCurrencies(ev *evaluation) *domain.Outcome {
	debitCurrency := strings.ToUpper(ev.debit.Currency)
	creditCurrency := strings.ToUpper(ev.credit.Currency)
	if debitCurrency != ev.ins.Currency || creditCurrency != ev.ins.Currency {
		return ev.businessFailure(domain.CodeCurrencyMismatch, domain.ReasonCurrencyMismatch)
	}
	return nil
}

func (s *Service) requireSufficientFunds(ev *evaluation) *domain.Outcome {
	if ev.debit.Balance < ev.ins.Amount {
		return ev.businessFailure(domain.CodeInsufficientFunds, domain.ReasonInsufficientFunds)
	}
	return nil
}

// execute decides immediate vs pending. An instruction is immediate when
// it has no execute-by date or the date is today or earlier; the
// comparison is lexical, which is correct for zero-padded YYYY-MM-DD.
func (s *Service) execute(ev *evaluation) *domain.Outcome {
	today := s.today()
	immediate := ev.ins.ExecuteBy == "" || ev.ins.ExecuteBy <= today
	return settledOutcome(ev.ins, ev.debit, ev.credit, immediate)
}
