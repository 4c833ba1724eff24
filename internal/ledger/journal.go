package ledger

import (
	"iter"

	"github.com/congo-pay/atm/internal/money"
)

// Journal is an append-only, insertion-ordered list of records.
// It is not safe for concurrent use; the owning account serialises access.
type Journal struct {
	records []Record
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append adds a record to the end of the journal and returns it.
func (j *Journal) Append(kind Kind, amount money.Amount) Record {
	rec := newRecord(kind, amount)
	j.records = append(j.records, rec)
	return rec
}

// Len reports how many records have been appended.
func (j *Journal) Len() int {
	return len(j.records)
}

// Last returns the most recently appended record.
func (j *Journal) Last() (Record, bool) {
	if len(j.records) == 0 {
		return Record{}, false
	}
	return j.records[len(j.records)-1], true
}

// All yields the records in insertion order. The sequence can be ranged over
// any number of times and sees only the records present when iteration starts.
func (j *Journal) All() iter.Seq[Record] {
	snapshot := j.records[:len(j.records):len(j.records)]
	return func(yield func(Record) bool) {
		for _, rec := range snapshot {
			if !yield(rec) {
				return
			}
		}
	}
}
