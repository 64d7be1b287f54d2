package chain

import (
	"crypto/subtle"
	"fmt"

	"github.com/roach88/glyphloop/internal/ir"
)

// VerificationError describes the first broken link found by Verify.
type VerificationError struct {
	Index    int
	Reason   string
	Expected string
	Actual   string
}

func (e *VerificationError) Error() string {
	if e.Expected != "" || e.Actual != "" {
		return fmt.Sprintf("chain broken at record %d: %s (expected %q, got %q)", e.Index, e.Reason, e.Expected, e.Actual)
	}
	return fmt.Sprintf("chain broken at record %d: %s", e.Index, e.Reason)
}

// Verify walks records in order and checks dense indices, the genesis link,
// every PrevHash link, and that each Hash recomputes from the record content.
// It returns nil for a valid (or empty) chain and a *VerificationError
// describing the first violation otherwise.
func Verify(records []ir.Record) error {
	prev := ir.GenesisHash
	for i, rec := range records {
		if rec.Index != i {
			return &VerificationError{
				Index:    i,
				Reason:   "index out of sequence",
				Expected: fmt.Sprint(i),
				Actual:   fmt.Sprint(rec.Index),
			}
		}
		if !rec.Category.Valid() {
			return &VerificationError{Index: i, Reason: fmt.Sprintf("unknown category %q", rec.Category)}
		}
		if !ir.ValidHash(rec.Hash) {
			return &VerificationError{Index: i, Reason: "malformed hash", Actual: rec.Hash}
		}
		if !hashEqual(rec.PrevHash, prev) {
			return &VerificationError{
				Index:    i,
				Reason:   "prev_hash does not match previous record",
				Expected: prev,
				Actual:   rec.PrevHash,
			}
		}

		computed := ir.RecordHash(rec.Category, rec.Length, rec.PrevHash, rec.Timestamp)
		if !hashEqual(computed, rec.Hash) {
			return &VerificationError{
				Index:    i,
				Reason:   "hash does not match record content",
				Expected: computed,
				Actual:   rec.Hash,
			}
		}
		prev = rec.Hash
	}
	return nil
}

func hashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
