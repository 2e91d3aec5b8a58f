package domain

import (
	"encoding/json"
	"fmt"
	"time"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/utils/cmp"
)

// ClaimKind names the 6 variants of Claim.
type ClaimKind string

const (
	KindSignReading        ClaimKind = "sign_reading"
	KindLemmatization      ClaimKind = "lemmatization"
	KindTranslation        ClaimKind = "translation"
	KindFragmentJoin       ClaimKind = "fragment_join"
	KindEntityMention      ClaimKind = "entity_mention"
	KindEntityRelationship ClaimKind = "entity_relationship"
)

func (k ClaimKind) String() string {
	return string(k)
}

func AsClaimKind(s string) (ClaimKind, error) {
	switch k := ClaimKind(s); k {
	case KindSignReading, KindLemmatization, KindTranslation,
		KindFragmentJoin, KindEntityMention, KindEntityRelationship:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown claim kind: %s", domerr.ErrInvalid, s)
	}
}

// TargetRef identifies the fact a Claim asserts about:
// the target entity, qualified by the claim kind.
//
// The kind takes part in identity since two kinds can reference
// the same table (lemmatization and entity_mention both point at tokens),
// and their consensuses are independent.
type TargetRef struct {
	Kind ClaimKind
	Id   int64
}

func (t TargetRef) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.Id)
}

// ClaimBody is the variant-specific substance of a Claim.
//
// This is a sealed interface: the 6 implementations in this file are
// the only ones, so switching over bodies is exhaustive.
type ClaimBody interface {
	// Kind names the variant.
	Kind() ClaimKind

	// Target derives the target reference from the body.
	Target() TargetRef

	// Validate checks variant-specific requirements.
	// All errors unwrap to ErrInvalid.
	Validate() error

	sealedClaimBody()
}

// SignReading asserts how a sign instance should be read.
type SignReading struct {
	SignInstanceId int64  `json:"signInstanceId"`
	Value          string `json:"value"`
	SignName       string `json:"signName,omitempty"`
}

func (b SignReading) Kind() ClaimKind { return KindSignReading }
func (b SignReading) Target() TargetRef {
	return TargetRef{Kind: KindSignReading, Id: b.SignInstanceId}
}
func (b SignReading) Validate() error {
	if b.SignInstanceId == 0 {
		return fmt.Errorf("%w: sign_reading: signInstanceId is required", domerr.ErrInvalid)
	}
	if b.Value == "" {
		return fmt.Errorf("%w: sign_reading: value is required", domerr.ErrInvalid)
	}
	return nil
}
func (b SignReading) sealedClaimBody() {}

// Lemmatization asserts the lemma (and analysis) of a token.
type Lemmatization struct {
	TokenId      int64  `json:"tokenId"`
	Lemma        string `json:"lemma"`
	PartOfSpeech string `json:"partOfSpeech,omitempty"`
	Analysis     string `json:"analysis,omitempty"`
}

func (b Lemmatization) Kind() ClaimKind { return KindLemmatization }
func (b Lemmatization) Target() TargetRef {
	return TargetRef{Kind: KindLemmatization, Id: b.TokenId}
}
func (b Lemmatization) Validate() error {
	if b.TokenId == 0 {
		return fmt.Errorf("%w: lemmatization: tokenId is required", domerr.ErrInvalid)
	}
	if b.Lemma == "" {
		return fmt.Errorf("%w: lemmatization: lemma is required", domerr.ErrInvalid)
	}
	return nil
}
func (b Lemmatization) sealedClaimBody() {}

// Translation asserts the translation of a line.
type Translation struct {
	LineId   int64  `json:"lineId"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

func (b Translation) Kind() ClaimKind { return KindTranslation }
func (b Translation) Target() TargetRef {
	return TargetRef{Kind: KindTranslation, Id: b.LineId}
}
func (b Translation) Validate() error {
	if b.LineId == 0 {
		return fmt.Errorf("%w: translation: lineId is required", domerr.ErrInvalid)
	}
	if b.Text == "" {
		return fmt.Errorf("%w: translation: text is required", domerr.ErrInvalid)
	}
	return nil
}
func (b Translation) sealedClaimBody() {}

// FragmentJoin asserts that an artifact physically joins another.
type FragmentJoin struct {
	ArtifactId      int64  `json:"artifactId"`
	JoinsArtifactId int64  `json:"joinsArtifactId"`
	Position        string `json:"position,omitempty"`
}

func (b FragmentJoin) Kind() ClaimKind { return KindFragmentJoin }
func (b FragmentJoin) Target() TargetRef {
	return TargetRef{Kind: KindFragmentJoin, Id: b.ArtifactId}
}
func (b FragmentJoin) Validate() error {
	if b.ArtifactId == 0 {
		return fmt.Errorf("%w: fragment_join: artifactId is required", domerr.ErrInvalid)
	}
	if b.JoinsArtifactId == 0 {
		return fmt.Errorf("%w: fragment_join: joinsArtifactId is required", domerr.ErrInvalid)
	}
	if b.ArtifactId == b.JoinsArtifactId {
		return fmt.Errorf("%w: fragment_join: an artifact cannot join itself", domerr.ErrInvalid)
	}
	return nil
}
func (b FragmentJoin) sealedClaimBody() {}

// EntityMention asserts that a token mentions a named entity.
type EntityMention struct {
	MentionTokenId int64  `json:"mentionTokenId"`
	EntityType     string `json:"entityType"`
	Normalized     string `json:"normalized,omitempty"`
}

func (b EntityMention) Kind() ClaimKind { return KindEntityMention }
func (b EntityMention) Target() TargetRef {
	return TargetRef{Kind: KindEntityMention, Id: b.MentionTokenId}
}
func (b EntityMention) Validate() error {
	if b.MentionTokenId == 0 {
		return fmt.Errorf("%w: entity_mention: mentionTokenId is required", domerr.ErrInvalid)
	}
	if b.EntityType == "" {
		return fmt.Errorf("%w: entity_mention: entityType is required", domerr.ErrInvalid)
	}
	return nil
}
func (b EntityMention) sealedClaimBody() {}

// EntityRelationship asserts a relation between two entities.
type EntityRelationship struct {
	EntityId        int64  `json:"entityId"`
	RelatedEntityId int64  `json:"relatedEntityId"`
	Relation        string `json:"relation"`
}

func (b EntityRelationship) Kind() ClaimKind { return KindEntityRelationship }
func (b EntityRelationship) Target() TargetRef {
	return TargetRef{Kind: KindEntityRelationship, Id: b.EntityId}
}
func (b EntityRelationship) Validate() error {
	if b.EntityId == 0 {
		return fmt.Errorf("%w: entity_relationship: entityId is required", domerr.ErrInvalid)
	}
	if b.RelatedEntityId == 0 {
		return fmt.Errorf("%w: entity_relationship: relatedEntityId is required", domerr.ErrInvalid)
	}
	if b.Relation == "" {
		return fmt.Errorf("%w: entity_relationship: relation is required", domerr.ErrInvalid)
	}
	return nil
}
func (b EntityRelationship) sealedClaimBody() {}

// UnmarshalClaimBody decodes a payload of the given kind.
func UnmarshalClaimBody(kind ClaimKind, payload []byte) (ClaimBody, error) {
	var body ClaimBody
	var err error
	switch kind {
	case KindSignReading:
		b := SignReading{}
		err = json.Unmarshal(payload, &b)
		body = b
	case KindLemmatization:
		b := Lemmatization{}
		err = json.Unmarshal(payload, &b)
		body = b
	case KindTranslation:
		b := Translation{}
		err = json.Unmarshal(payload, &b)
		body = b
	case KindFragmentJoin:
		b := FragmentJoin{}
		err = json.Unmarshal(payload, &b)
		body = b
	case KindEntityMention:
		b := EntityMention{}
		err = json.Unmarshal(payload, &b)
		body = b
	case KindEntityRelationship:
		b := EntityRelationship{}
		err = json.Unmarshal(payload, &b)
		body = b
	default:
		return nil, fmt.Errorf("%w: unknown claim kind: %s", domerr.ErrInvalid, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: broken %s payload: %s", domerr.ErrInvalid, kind, err)
	}
	return body, nil
}

var (
	// an identical claim (kind, target, payload, run) is registered already.
	ErrDuplicateClaim = fmt.Errorf("%w: duplicate claim", domerr.ErrConflict)

	// the target entity the claim points at does not exist.
	ErrInvalidTarget = fmt.Errorf("%w: claim target does not exist", domerr.ErrInvalid)
)

// ErrClaimExists tells which existing Claim a duplicate registration hit.
type ErrClaimExists struct {
	ClaimId string
}

var _ error = ErrClaimExists{}

func (e ErrClaimExists) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateClaim, e.ClaimId)
}

func (e ErrClaimExists) Unwrap() error {
	return ErrDuplicateClaim
}

// ClaimSpec is a request to register a new Claim.
type ClaimSpec struct {
	RunId      string
	Body       ClaimBody
	Confidence *float64
	Note       string
}

func (s ClaimSpec) Validate() error {
	if s.RunId == "" {
		return fmt.Errorf("%w: runId is required", domerr.ErrInvalid)
	}
	if s.Body == nil {
		return fmt.Errorf("%w: claim body is required", domerr.ErrInvalid)
	}
	if err := s.Body.Validate(); err != nil {
		return err
	}
	if c := s.Confidence; c != nil && (*c < 0 || 1 < *c) {
		return fmt.Errorf("%w: confidence is out of range [0, 1]: %f", domerr.ErrInvalid, *c)
	}
	return nil
}

// Claim is an immutable assertion about one target entity.
//
// Only IsConsensus and CurrentDecision change after registration,
// and only the Decision engine changes them.
type Claim struct {
	ClaimId    string
	Body       ClaimBody
	Confidence *float64
	Note       string

	// the Run which produced this claim.
	ProducedBy Run

	// true iff this claim is the authoritative one for its target.
	IsConsensus bool

	// head of this claim's decision chain. nil when never adjudicated.
	CurrentDecision *Decision

	CreatedAt time.Time
}

func (c Claim) Kind() ClaimKind {
	return c.Body.Kind()
}

func (c Claim) Target() TargetRef {
	return c.Body.Target()
}

func (c Claim) Equal(other Claim) bool {
	return c.ClaimId == other.ClaimId &&
		c.Body == other.Body &&
		cmp.PEqEq(c.Confidence, other.Confidence) &&
		c.Note == other.Note &&
		c.ProducedBy.Equal(other.ProducedBy) &&
		c.IsConsensus == other.IsConsensus &&
		cmp.PEqualWith(
			c.CurrentDecision, other.CurrentDecision,
			func(a, b Decision) bool { return a.Equal(b) },
		) &&
		c.CreatedAt.Equal(other.CreatedAt)
}
