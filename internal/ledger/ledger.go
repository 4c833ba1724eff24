package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/atm/internal/money"
)

// Kind identifies the balance-affecting operation a record describes.
type Kind int

const (
	// KindDeposit records cash added to the account.
	KindDeposit Kind = iota + 1
	// KindWithdrawal records cash taken from the account.
	KindWithdrawal
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// Record is a single ledger entry. Records are values and never change after
// they are appended.
type Record struct {
	ID     string
	Kind   Kind
	Amount money.Amount
	At     time.Time
}

func newRecord(kind Kind, amount money.Amount) Record {
	return Record{
		ID:     uuid.NewString(),
		Kind:   kind,
		Amount: amount,
		At:     time.Now().UTC(),
	}
}
