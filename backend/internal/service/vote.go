package service

import (
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
)

// castVote toggles who's vote on target and returns the new state with the
// counter deltas. Entries that end up empty are pruned from the ledger.
func castVote(ledger domain.VoteLedger, who domain.Identity, target string, kind domain.VoteKind) (domain.VoteState, int64, int64) {
	prev := ledger[who][target]
	next, likeDelta, dislikeDelta := prev.Toggle(kind)

	if next.Empty() {
		delete(ledger[who], target)
		if len(ledger[who]) == 0 {
			delete(ledger, who)
		}
	} else {
		if ledger[who] == nil {
			ledger[who] = map[string]domain.VoteState{}
		}
		ledger[who][target] = next
	}
	return next, likeDelta, dislikeDelta
}

// forgetTarget drops every vote on target.
func forgetTarget(ledger domain.VoteLedger, target string) bool {
	changed := false
	for who, votes := range ledger {
		if _, ok := votes[target]; !ok {
			continue
		}
		delete(votes, target)
		changed = true
		if len(votes) == 0 {
			delete(ledger, who)
		}
	}
	return changed
}

func validateVote(actor *domain.Actor, kind domain.VoteKind) error {
	if actor == nil {
		return errors.ErrLoginRequired
	}
	if !kind.Valid() {
		return errors.Validation("unknown vote kind %q", kind)
	}
	return nil
}
