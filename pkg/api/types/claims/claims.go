package claims

import (
	"bytes"
	"encoding/json"

	apidecisions "github.com/edubba/edubba/pkg/api/types/decisions"
	apiruns "github.com/edubba/edubba/pkg/api/types/runs"
	"github.com/edubba/edubba/pkg/utils/cmp"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

// Spec is the request body for submitting a claim.
//
// The producing run is taken from the run token, not from the body.
// Payload is the kind-specific assertion and carries the target id.
type Spec struct {
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Confidence *float64        `json:"confidence,omitempty"`
	Note       string          `json:"note,omitempty"`
}

func (s *Spec) Equal(o *Spec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.Kind == o.Kind &&
		bytes.Equal(s.Payload, o.Payload) &&
		cmp.PEqEq(s.Confidence, o.Confidence) &&
		s.Note == o.Note
}

// Target locates the entity a claim asserts about.
type Target struct {
	Kind string `json:"kind"`
	Id   int64  `json:"id"`
}

type Detail struct {
	ClaimId    string          `json:"claimId"`
	Kind       string          `json:"kind"`
	Target     Target          `json:"target"`
	Payload    json.RawMessage `json:"payload"`
	Confidence *float64        `json:"confidence,omitempty"`
	Note       string          `json:"note,omitempty"`

	ProducedBy apiruns.Detail `json:"producedBy"`

	IsConsensus bool `json:"isConsensus"`

	// head of the claim's decision chain. null when never adjudicated.
	CurrentDecision *apidecisions.Detail `json:"currentDecision,omitempty"`

	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.ClaimId == o.ClaimId &&
		d.Kind == o.Kind &&
		d.Target == o.Target &&
		bytes.Equal(d.Payload, o.Payload) &&
		cmp.PEqEq(d.Confidence, o.Confidence) &&
		d.Note == o.Note &&
		d.ProducedBy.Equal(&o.ProducedBy) &&
		d.IsConsensus == o.IsConsensus &&
		d.CurrentDecision.Equal(o.CurrentDecision) &&
		d.CreatedAt.Equal(&o.CreatedAt)
}

// Adjudicated is the response for a committed decision: the new chain
// head and the claim as the adjudication left it.
type Adjudicated struct {
	Decision apidecisions.Detail `json:"decision"`
	Claim    Detail              `json:"claim"`
}

func (a *Adjudicated) Equal(o *Adjudicated) bool {
	if a == nil || o == nil {
		return a == nil && o == nil
	}
	return a.Decision.Equal(&o.Decision) && a.Claim.Equal(&o.Claim)
}
