package importer

import (
	"github.com/centbook/backend/internal/models"
)

// dedupSet tracks the fingerprints of all committed transactions, the
// pre-existing ledger ones and the ones committed during the current run.
// Duplicate detection must run against this cumulative set: the second
// occurrence of a row within one file is a duplicate of the first.
type dedupSet struct {
	fingerprints map[string]struct{}
}

func newDedupSet(existing []models.Transaction) *dedupSet {
	set := dedupSet{fingerprints: make(map[string]struct{}, len(existing))}

	for _, transaction := range existing {
		fingerprint := transaction.Fingerprint
		if fingerprint == "" {
			fingerprint = transaction.ComputeFingerprint()
		}

		set.fingerprints[fingerprint] = struct{}{}
	}

	return &set
}

// isDuplicate reports whether a candidate matches a committed transaction.
func (s *dedupSet) isDuplicate(candidate models.Transaction) bool {
	_, ok := s.fingerprints[candidate.ComputeFingerprint()]
	return ok
}

// add records a committed transaction.
func (s *dedupSet) add(transaction models.Transaction) {
	fingerprint := transaction.Fingerprint
	if fingerprint == "" {
		fingerprint = transaction.ComputeFingerprint()
	}

	s.fingerprints[fingerprint] = struct{}{}
}
