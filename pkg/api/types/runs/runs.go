package runs

import (
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

// Spec is the request body for registering an annotation run.
type Spec struct {
	SourceType   string `json:"sourceType"`
	SourceName   string `json:"sourceName"`
	ModelVersion string `json:"modelVersion,omitempty"`
	ScholarId    string `json:"scholarId,omitempty"`
	Method       string `json:"method,omitempty"`
	CorpusScope  string `json:"corpusScope,omitempty"`
}

func (s *Spec) Equal(o *Spec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.SourceType == o.SourceType &&
		s.SourceName == o.SourceName &&
		s.ModelVersion == o.ModelVersion &&
		s.ScholarId == o.ScholarId &&
		s.Method == o.Method &&
		s.CorpusScope == o.CorpusScope
}

type Detail struct {
	RunId        string          `json:"runId"`
	SourceType   string          `json:"sourceType"`
	SourceName   string          `json:"sourceName"`
	ModelVersion string          `json:"modelVersion,omitempty"`
	ScholarId    string          `json:"scholarId,omitempty"`
	Method       string          `json:"method,omitempty"`
	CorpusScope  string          `json:"corpusScope,omitempty"`
	CreatedAt    rfctime.RFC3339 `json:"createdAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.RunId == o.RunId &&
		d.SourceType == o.SourceType &&
		d.SourceName == o.SourceName &&
		d.ModelVersion == o.ModelVersion &&
		d.ScholarId == o.ScholarId &&
		d.Method == o.Method &&
		d.CorpusScope == o.CorpusScope &&
		d.CreatedAt.Equal(&o.CreatedAt)
}

// Registered is the response for a newly registered run: the run itself
// and the bearer token every write on behalf of this run has to carry.
type Registered struct {
	Run   Detail `json:"run"`
	Token string `json:"token"`
}

func (r *Registered) Equal(o *Registered) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return r.Run.Equal(&o.Run) && r.Token == o.Token
}
