// Package account holds the ATM account: the PIN gate, the balance and the
// append-only transaction ledger. Every operation is atomic and leaves the
// account unchanged when it fails.
package account

import (
	"fmt"
	"iter"
	"sync"

	"github.com/congo-pay/atm/internal/credential"
	"github.com/congo-pay/atm/internal/ledger"
	"github.com/congo-pay/atm/internal/money"
)

// Account is owned by a single session. The mutex keeps each operation atomic
// if an account is ever shared.
type Account struct {
	mu         sync.Mutex
	credential credential.Verifier
	balance    money.Amount
	journal    *ledger.Journal
}

// New opens an account guarded by verifier with the given opening balance.
func New(verifier credential.Verifier, opening money.Amount) (*Account, error) {
	if verifier == nil {
		return nil, fmt.Errorf("credential verifier is required")
	}
	if opening < 0 {
		return nil, ErrInvalidAmount
	}
	return &Account{
		credential: verifier,
		balance:    opening,
		journal:    ledger.NewJournal(),
	}, nil
}

// Authenticate reports whether candidate matches the current PIN. Attempts are
// not counted here.
func (a *Account) Authenticate(candidate string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credential.Match(candidate)
}

// Balance returns the current balance.
func (a *Account) Balance() money.Amount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit adds amount to the balance and records it, returning the new balance.
func (a *Account) Deposit(amount money.Amount) (money.Amount, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount > money.Max-a.balance {
		return 0, ErrBalanceLimit
	}
	a.balance += amount
	a.journal.Append(ledger.KindDeposit, amount)
	return a.balance, nil
}

// Withdraw removes amount from the balance and records it, returning the new
// balance. The amount is validated before funds are checked.
func (a *Account) Withdraw(amount money.Amount) (money.Amount, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount > a.balance {
		return 0, ErrInsufficientFunds
	}
	a.balance -= amount
	a.journal.Append(ledger.KindWithdrawal, amount)
	return a.balance, nil
}

// ChangePIN replaces the credential. No format or strength rules apply; the
// only possible error comes from a hashing verifier.
func (a *Account) ChangePIN(newPIN string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.credential.Replace(newPIN); err != nil {
		return fmt.Errorf("change pin: %w", err)
	}
	return nil
}

// History yields the ledger in insertion order as it stood when History was
// called.
func (a *Account) History() iter.Seq[ledger.Record] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.journal.All()
}

// LastRecord returns the most recent ledger record, if any.
func (a *Account) LastRecord() (ledger.Record, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.journal.Last()
}

// HistoryLen reports the number of ledger records.
func (a *Account) HistoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.journal.Len()
}
