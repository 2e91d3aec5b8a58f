package tables

import (
	"time"
)

// golang representation of record of PostgreSQL tables
//
// some tables are omitted, because of its simpleness.

type Artifact struct {
	ArtifactId   int64
	MuseumNumber string
}

type Surface struct {
	SurfaceId  int64
	ArtifactId int64
	Label      string
}

type Line struct {
	LineId     int64
	SurfaceId  int64
	LineNumber int
}

type Token struct {
	TokenId  int64
	LineId   int64
	Position int
}

type SignInstance struct {
	SignInstanceId int64
	LineId         int64
	Position       int
}

type Entity struct {
	EntityId      int64
	EntityType    string
	CanonicalName string
}

type AnnotationRun struct {
	RunId        string
	SourceType   string
	SourceName   string
	ModelVersion *string
	ScholarId    *string
	Method       string
	CorpusScope  string

	// inserted as now() when nil.
	CreatedAt *time.Time
}

type Claim struct {
	ClaimId   string
	ClaimKind string

	// the target columns. set the one matching ClaimKind.
	SignInstanceId *int64
	TokenId        *int64
	LineId         *int64
	ArtifactId     *int64
	MentionTokenId *int64
	EntityId       *int64

	Payload    string
	Confidence *float64
	Note       string
	RunId      string

	IsConsensus bool

	// set after Decisions are inserted, since it cites one of them.
	CurrentDecisionId *string

	// inserted as now() when nil.
	CreatedAt *time.Time
}

type Decision struct {
	DecisionId     string
	ClaimId        string
	Verdict        string
	DecisionMethod string
	Rationale      string
	DecidedBy      string
	SupersedesId   *string

	// inserted as now() when nil.
	DecidedAt *time.Time
}

type Evidence struct {
	EvidenceId    string
	ClaimId       string
	EvidenceType  string
	Reference     string
	SupportsClaim bool
	AddedBy       string
	Note          string

	// inserted as now() when nil.
	AddedAt *time.Time
}

type EvidenceCheck struct {
	EvidenceId string
	Reference  string

	// inserted as now() when nil.
	QueuedAt *time.Time
}

type DiscussionThread struct {
	ThreadId             string
	ClaimId              string
	Title                string
	Status               string
	OpenedBy             string
	ResolutionDecisionId *string

	// inserted as now() when nil.
	OpenedAt *time.Time
}

type DiscussionPost struct {
	PostId   string
	ThreadId string
	ReplyTo  *string
	PostType string
	AuthorId string
	Body     string

	// inserted as now() when nil.
	PostedAt *time.Time
}

type PipelineStatus struct {
	ArtifactId         int64
	PhysicalExpected   int
	PhysicalCovered    int
	GraphemicExpected  int
	GraphemicCovered   int
	ReadingExpected    int
	ReadingCovered     int
	LinguisticExpected int
	LinguisticCovered  int
	SemanticExpected   int
	SemanticCovered    int
	QualityScore       float64
	Stale              bool

	// inserted as now() when nil.
	ComputedAt *time.Time
}

type PipelineQueue struct {
	ArtifactId int64

	// inserted as now() when nil.
	QueuedAt *time.Time
}
