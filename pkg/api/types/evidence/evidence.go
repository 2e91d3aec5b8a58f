package evidence

import (
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

// Spec is the request body for attaching evidence to a claim.
//
// The contributor is taken from the run token, not from the body.
type Spec struct {
	Type          string `json:"type"`
	Reference     string `json:"reference"`
	SupportsClaim bool   `json:"supportsClaim"`
	Note          string `json:"note,omitempty"`
}

func (s *Spec) Equal(o *Spec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.Type == o.Type &&
		s.Reference == o.Reference &&
		s.SupportsClaim == o.SupportsClaim &&
		s.Note == o.Note
}

type Detail struct {
	EvidenceId    string          `json:"evidenceId"`
	ClaimId       string          `json:"claimId"`
	Type          string          `json:"type"`
	Reference     string          `json:"reference"`
	SupportsClaim bool            `json:"supportsClaim"`
	AddedBy       string          `json:"addedBy"`
	Note          string          `json:"note,omitempty"`
	AddedAt       rfctime.RFC3339 `json:"addedAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.EvidenceId == o.EvidenceId &&
		d.ClaimId == o.ClaimId &&
		d.Type == o.Type &&
		d.Reference == o.Reference &&
		d.SupportsClaim == o.SupportsClaim &&
		d.AddedBy == o.AddedBy &&
		d.Note == o.Note &&
		d.AddedAt.Equal(&o.AddedAt)
}
