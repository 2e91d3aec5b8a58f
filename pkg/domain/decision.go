package domain

import (
	"fmt"
	"time"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/utils/cmp"
)

// Verdict is the judgement a Decision passes on a Claim.
type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictReject Verdict = "reject"
	VerdictDefer  Verdict = "defer"
)

func (v Verdict) String() string {
	return string(v)
}

func AsVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case VerdictAccept, VerdictReject, VerdictDefer:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown verdict: %s", domerr.ErrInvalid, s)
	}
}

// DecisionMethod tells how a Decision was arrived at.
type DecisionMethod string

const (
	MethodEditorial     DecisionMethod = "editorial"
	MethodVote          DecisionMethod = "vote"
	MethodAlgorithm     DecisionMethod = "algorithm"
	MethodImportDefault DecisionMethod = "import_default"
)

func (m DecisionMethod) String() string {
	return string(m)
}

func AsDecisionMethod(s string) (DecisionMethod, error) {
	switch m := DecisionMethod(s); m {
	case MethodEditorial, MethodVote, MethodAlgorithm, MethodImportDefault:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown decision method: %s", domerr.ErrInvalid, s)
	}
}

// HumanTier is true for methods backed by human judgement.
// Human-tier decisions outrank algorithmic ones during consensus election,
// whatever the confidences involved.
func (m DecisionMethod) HumanTier() bool {
	return m == MethodEditorial || m == MethodVote
}

var (
	// editorial decisions have to carry a rationale.
	ErrRationaleRequired = fmt.Errorf(
		"%w: rationale is required for editorial decisions", domerr.ErrInvalid,
	)

	// the decision to be superseded is not the head of the chain anymore.
	ErrDecisionOutdated = fmt.Errorf("%w: decision chain has advanced", domerr.ErrConflict)
)

// DecisionSpec is a request to commit a new Decision on a Claim.
//
// Supersedes carries the decision id the caller saw as the head of the
// claim's chain (nil when the caller saw no decision at all). When the
// actual head differs, the commit fails with ErrDecisionOutdated and the
// caller should re-read and retry.
type DecisionSpec struct {
	ClaimId    string
	Verdict    Verdict
	Method     DecisionMethod
	Rationale  string
	DecidedBy  string
	Supersedes *string
}

func (s DecisionSpec) Validate() error {
	if s.ClaimId == "" {
		return fmt.Errorf("%w: claimId is required", domerr.ErrInvalid)
	}
	if _, err := AsVerdict(s.Verdict.String()); err != nil {
		return err
	}
	if _, err := AsDecisionMethod(s.Method.String()); err != nil {
		return err
	}
	// Machine decisions may leave the decider blank; a human judgement
	// has to be attributable to someone.
	if s.Method.HumanTier() && s.DecidedBy == "" {
		return fmt.Errorf(
			"%w: decidedBy is required for %s decisions", domerr.ErrInvalid, s.Method,
		)
	}
	if s.Method == MethodEditorial && s.Rationale == "" {
		return ErrRationaleRequired
	}
	return nil
}

// Decision is one link in a claim's decision chain.
//
// Decisions are never updated nor deleted. Overturning one means
// committing a new Decision which supersedes it.
type Decision struct {
	DecisionId string
	ClaimId    string
	Verdict    Verdict
	Method     DecisionMethod
	Rationale  string
	DecidedBy  string

	// the decision this one overturned. nil for the first in the chain.
	SupersedesId *string

	DecidedAt time.Time
}

func (d Decision) Equal(other Decision) bool {
	return d.DecisionId == other.DecisionId &&
		d.ClaimId == other.ClaimId &&
		d.Verdict == other.Verdict &&
		d.Method == other.Method &&
		d.Rationale == other.Rationale &&
		d.DecidedBy == other.DecidedBy &&
		cmp.PEqEq(d.SupersedesId, other.SupersedesId) &&
		d.DecidedAt.Equal(other.DecidedAt)
}

// RecordResult is what committing a Decision yields: the new chain head
// and the claim as the adjudication left it.
type RecordResult struct {
	Decision Decision
	Claim    Claim
}

func (r RecordResult) Equal(other RecordResult) bool {
	return r.Decision.Equal(other.Decision) && r.Claim.Equal(other.Claim)
}
