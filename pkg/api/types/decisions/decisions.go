package decisions

import (
	"github.com/edubba/edubba/pkg/utils/cmp"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

// Spec is the request body for committing a decision on a claim.
//
// Supersedes has to cite the decision the caller saw as the head of the
// claim's chain, and stays null for a claim never decided before. The
// decider is taken from the run token, not from the body.
type Spec struct {
	Verdict    string  `json:"verdict"`
	Method     string  `json:"method"`
	Rationale  string  `json:"rationale,omitempty"`
	Supersedes *string `json:"supersedes,omitempty"`
}

func (s *Spec) Equal(o *Spec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.Verdict == o.Verdict &&
		s.Method == o.Method &&
		s.Rationale == o.Rationale &&
		cmp.PEqEq(s.Supersedes, o.Supersedes)
}

type Detail struct {
	DecisionId   string          `json:"decisionId"`
	ClaimId      string          `json:"claimId"`
	Verdict      string          `json:"verdict"`
	Method       string          `json:"method"`
	Rationale    string          `json:"rationale,omitempty"`
	DecidedBy    string          `json:"decidedBy"`
	SupersedesId *string         `json:"supersedesId,omitempty"`
	DecidedAt    rfctime.RFC3339 `json:"decidedAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.DecisionId == o.DecisionId &&
		d.ClaimId == o.ClaimId &&
		d.Verdict == o.Verdict &&
		d.Method == o.Method &&
		d.Rationale == o.Rationale &&
		d.DecidedBy == o.DecidedBy &&
		cmp.PEqEq(d.SupersedesId, o.SupersedesId) &&
		d.DecidedAt.Equal(&o.DecidedAt)
}
