package consensus

import (
	apiclaims "github.com/edubba/edubba/pkg/api/types/claims"
	"github.com/edubba/edubba/pkg/utils/cmp"
)

// Result is the consensus view of one target entity.
//
// State is one of "decided", "ambiguous" or "unannotated".
// Consensus is set iff decided; Competing is set iff ambiguous, ranked
// by confidence descending (claims without confidence last).
type Result struct {
	Target apiclaims.Target `json:"target"`
	State  string           `json:"state"`

	Consensus *apiclaims.Detail  `json:"consensus,omitempty"`
	Competing []apiclaims.Detail `json:"competing,omitempty"`
}

func (r *Result) Equal(o *Result) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return r.Target == o.Target &&
		r.State == o.State &&
		r.Consensus.Equal(o.Consensus) &&
		cmp.SliceEqWith(
			r.Competing, o.Competing,
			func(a, b apiclaims.Detail) bool { return a.Equal(&b) },
		)
}
