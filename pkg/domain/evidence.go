package domain

import (
	"fmt"
	"time"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
)

// EvidenceType classifies what kind of support an Evidence item offers.
type EvidenceType string

const (
	EvidencePhoto           EvidenceType = "photo"
	EvidenceCollation       EvidenceType = "collation"
	EvidencePublication     EvidenceType = "publication"
	EvidenceParallelText    EvidenceType = "parallel_text"
	EvidencePriorAnnotation EvidenceType = "prior_annotation"
)

func (t EvidenceType) String() string {
	return string(t)
}

func AsEvidenceType(s string) (EvidenceType, error) {
	switch t := EvidenceType(s); t {
	case EvidencePhoto, EvidenceCollation, EvidencePublication,
		EvidenceParallelText, EvidencePriorAnnotation:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown evidence type: %s", domerr.ErrInvalid, s)
	}
}

// EvidenceSpec is a request to append Evidence to a claim's ledger.
type EvidenceSpec struct {
	ClaimId   string
	Type      EvidenceType
	Reference string

	// false when the evidence argues against the claim.
	SupportsClaim bool

	AddedBy string
	Note    string
}

func (s EvidenceSpec) Validate() error {
	if s.ClaimId == "" {
		return fmt.Errorf("%w: claimId is required", domerr.ErrInvalid)
	}
	if _, err := AsEvidenceType(s.Type.String()); err != nil {
		return err
	}
	if s.Reference == "" {
		return fmt.Errorf("%w: reference is required", domerr.ErrInvalid)
	}
	if s.AddedBy == "" {
		return fmt.Errorf("%w: addedBy is required", domerr.ErrInvalid)
	}
	return nil
}

// Evidence is one item in a claim's evidence ledger.
//
// The ledger is append-only. Items are never updated nor deleted;
// a correction is a new item whose note points at the one it amends.
type Evidence struct {
	EvidenceId    string
	ClaimId       string
	Type          EvidenceType
	Reference     string
	SupportsClaim bool
	AddedBy       string
	Note          string
	AddedAt       time.Time
}

func (e Evidence) Equal(other Evidence) bool {
	return e.EvidenceId == other.EvidenceId &&
		e.ClaimId == other.ClaimId &&
		e.Type == other.Type &&
		e.Reference == other.Reference &&
		e.SupportsClaim == other.SupportsClaim &&
		e.AddedBy == other.AddedBy &&
		e.Note == other.Note &&
		e.AddedAt.Equal(other.AddedAt)
}

// EvidenceCheck is a queued request to probe whether the reference of an
// Evidence item is reachable. Its outcome is reported, never stored; the
// ledger itself stays as written.
type EvidenceCheck struct {
	EvidenceId string
	Reference  string
	QueuedAt   time.Time
}

func (c EvidenceCheck) Equal(other EvidenceCheck) bool {
	return c.EvidenceId == other.EvidenceId &&
		c.Reference == other.Reference &&
		c.QueuedAt.Equal(other.QueuedAt)
}
