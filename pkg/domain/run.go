package domain

import (
	"fmt"
	"time"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
)

// SourceType tells what kind of actor produced an AnnotationRun.
type SourceType string

const (
	// a human scholar working by hand.
	SourceHuman SourceType = "human"

	// an automated model (OCR, parser, aligner, ...).
	SourceModel SourceType = "model"

	// a human correcting or curating model output.
	SourceHybrid SourceType = "hybrid"

	// a bulk import from an external corpus.
	SourceImport SourceType = "import"
)

func (st SourceType) String() string {
	return string(st)
}

func AsSourceType(s string) (SourceType, error) {
	switch st := SourceType(s); st {
	case SourceHuman, SourceModel, SourceHybrid, SourceImport:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown source type: %s", domerr.ErrInvalid, s)
	}
}

var (
	ErrMissingModelVersion = fmt.Errorf(
		"%w: modelVersion is required for model/hybrid runs", domerr.ErrInvalid,
	)
	ErrMissingScholarId = fmt.Errorf(
		"%w: scholarId is required for human/hybrid runs", domerr.ErrInvalid,
	)
	ErrUnexpectedScholarId = fmt.Errorf(
		"%w: scholarId is not allowed for model/import runs", domerr.ErrInvalid,
	)
)

// RunSpec is a request to register a new AnnotationRun.
type RunSpec struct {
	SourceType   SourceType
	SourceName   string
	ModelVersion string
	ScholarId    string
	Method       string
	CorpusScope  string
}

// Validate checks source_type-dependent requirements.
//
// All errors unwrap to ErrInvalid.
func (s RunSpec) Validate() error {
	if _, err := AsSourceType(string(s.SourceType)); err != nil {
		return err
	}
	if s.SourceName == "" {
		return fmt.Errorf("%w: sourceName is required", domerr.ErrInvalid)
	}

	switch s.SourceType {
	case SourceModel:
		if s.ModelVersion == "" {
			return ErrMissingModelVersion
		}
		if s.ScholarId != "" {
			return ErrUnexpectedScholarId
		}
	case SourceHybrid:
		if s.ModelVersion == "" {
			return ErrMissingModelVersion
		}
		if s.ScholarId == "" {
			return ErrMissingScholarId
		}
	case SourceHuman:
		if s.ScholarId == "" {
			return ErrMissingScholarId
		}
	case SourceImport:
		if s.ScholarId != "" {
			return ErrUnexpectedScholarId
		}
	}
	return nil
}

// Run is the provenance record of a batch of annotation work.
//
// Runs are immutable once registered.
type Run struct {
	RunId        string
	SourceType   SourceType
	SourceName   string
	ModelVersion string
	ScholarId    string
	Method       string
	CorpusScope  string
	CreatedAt    time.Time
}

func (r Run) Equal(other Run) bool {
	return r.RunId == other.RunId &&
		r.SourceType == other.SourceType &&
		r.SourceName == other.SourceName &&
		r.ModelVersion == other.ModelVersion &&
		r.ScholarId == other.ScholarId &&
		r.Method == other.Method &&
		r.CorpusScope == other.CorpusScope &&
		r.CreatedAt.Equal(other.CreatedAt)
}

// Actor names who did the work: the scholar for human-driven runs,
// otherwise the source (tool or corpus) name.
func (r Run) Actor() string {
	if r.ScholarId != "" {
		return r.ScholarId
	}
	return r.SourceName
}
