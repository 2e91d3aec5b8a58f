package domain

import (
	"fmt"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/utils/cmp"
	"github.com/edubba/edubba/pkg/utils/slices"
)

// ConsensusState classifies a target entity by its claims.
type ConsensusState string

const (
	// one claim on the target has been accepted as authoritative.
	ConsensusDecided ConsensusState = "decided"

	// claims exist on the target, but none of them is authoritative.
	ConsensusAmbiguous ConsensusState = "ambiguous"

	// no claims exist on the target at all.
	ConsensusUnannotated ConsensusState = "unannotated"
)

func (s ConsensusState) String() string {
	return string(s)
}

func AsConsensusState(s string) (ConsensusState, error) {
	switch cs := ConsensusState(s); cs {
	case ConsensusDecided, ConsensusAmbiguous, ConsensusUnannotated:
		return cs, nil
	default:
		return "", fmt.Errorf("%w: unknown consensus state: %s", domerr.ErrInvalid, s)
	}
}

// ConsensusResult is the resolved view of one target entity.
type ConsensusResult struct {
	Target TargetRef
	State  ConsensusState

	// the authoritative claim. non-nil iff State is ConsensusDecided.
	Consensus *Claim

	// the claims contending for the target, ranked by RankCompeting.
	// set iff State is ConsensusAmbiguous.
	Competing []Claim
}

func (r ConsensusResult) Equal(other ConsensusResult) bool {
	return r.Target == other.Target &&
		r.State == other.State &&
		cmp.PEqualWith(
			r.Consensus, other.Consensus,
			func(a, b Claim) bool { return a.Equal(b) },
		) &&
		cmp.SliceEqWith(
			r.Competing, other.Competing,
			func(a, b Claim) bool { return a.Equal(b) },
		)
}

// ElectConsensus picks the authoritative claim among competitors
// for a single target.
//
// Only claims whose decision chain heads at an accept take part.
// A human judgement (editorial or vote) always outranks an algorithmic
// or imported one; among human judgements the latest stands, and among
// algorithmic ones the most confident claim wins.
//
// The election is a pure function of the given claims, so replaying it
// after any decision commit converges every replica on the same winner.
func ElectConsensus(claims []Claim) (Claim, bool) {
	found := false
	var won Claim
	for _, c := range claims {
		if d := c.CurrentDecision; d == nil || d.Verdict != VerdictAccept {
			continue
		}
		if !found || preferAccepted(c, won) {
			won, found = c, true
		}
	}
	return won, found
}

// preferAccepted reports whether a outranks b in consensus election.
// Both claims have to head at an accept decision.
func preferAccepted(a, b Claim) bool {
	da, db := a.CurrentDecision, b.CurrentDecision
	if ha, hb := da.Method.HumanTier(), db.Method.HumanTier(); ha != hb {
		return ha
	}
	if da.Method.HumanTier() {
		// both human: the later judgement stands.
		if !da.DecidedAt.Equal(db.DecidedAt) {
			return da.DecidedAt.After(db.DecidedAt)
		}
		return a.ClaimId < b.ClaimId
	}
	// both machine: the more confident claim wins. no confidence ranks lowest.
	ca, oka := confidenceOf(a)
	cb, okb := confidenceOf(b)
	if oka != okb {
		return oka
	}
	if oka && ca != cb {
		return ca > cb
	}
	if !da.DecidedAt.Equal(db.DecidedAt) {
		return da.DecidedAt.After(db.DecidedAt)
	}
	return a.ClaimId < b.ClaimId
}

func confidenceOf(c Claim) (float64, bool) {
	if c.Confidence == nil {
		return 0, false
	}
	return *c.Confidence, true
}

// ImportAutoAccept tells whether a claim arriving from an import run may
// be accepted outright, given the current consensus on its target.
//
// Imports never displace human judgement. They displace a machine-tier
// consensus only when strictly more confident; a claim without confidence
// ranks lowest and displaces nothing.
func ImportAutoAccept(current *Claim, confidence *float64) bool {
	if current == nil {
		return true
	}
	head := current.CurrentDecision
	if head == nil || head.Method.HumanTier() {
		return false
	}
	if confidence == nil {
		return false
	}
	if cur, ok := confidenceOf(*current); ok {
		return cur < *confidence
	}
	return true
}

// RankCompeting orders the claims contending for a target:
// confidence descending, claims without confidence last.
func RankCompeting(claims []Claim) []Claim {
	return slices.Sorted(claims, func(a, b Claim) bool {
		ca, oka := confidenceOf(a)
		cb, okb := confidenceOf(b)
		if oka != okb {
			return oka
		}
		if oka && ca != cb {
			return ca > cb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ClaimId < b.ClaimId
	})
}

// SummarizeConsensus resolves the view of a target from its claims.
func SummarizeConsensus(target TargetRef, claims []Claim) ConsensusResult {
	if len(claims) == 0 {
		return ConsensusResult{Target: target, State: ConsensusUnannotated}
	}
	if won, ok := ElectConsensus(claims); ok {
		return ConsensusResult{Target: target, State: ConsensusDecided, Consensus: &won}
	}
	return ConsensusResult{
		Target: target, State: ConsensusAmbiguous, Competing: RankCompeting(claims),
	}
}
