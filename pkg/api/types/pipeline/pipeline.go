package pipeline

import (
	"github.com/edubba/edubba/pkg/utils/cmp"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

// Layer is the consensus coverage of one processing layer.
type Layer struct {
	Expected   int     `json:"expected"`
	Covered    int     `json:"covered"`
	Completion float64 `json:"completion"`
}

// Status is the per-artifact rollup of consensus coverage.
//
// Layers is keyed by layer name (physical, graphemic, reading,
// linguistic, semantic). Stale marks a rollup which may not reflect the
// latest decisions yet.
type Status struct {
	ArtifactId   int64            `json:"artifactId"`
	Layers       map[string]Layer `json:"layers"`
	QualityScore float64          `json:"qualityScore"`
	Stale        bool             `json:"stale"`
	ComputedAt   rfctime.RFC3339  `json:"computedAt"`
}

func (s *Status) Equal(o *Status) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.ArtifactId == o.ArtifactId &&
		cmp.MapEq(s.Layers, o.Layers) &&
		s.QualityScore == o.QualityScore &&
		s.Stale == o.Stale &&
		s.ComputedAt.Equal(&o.ComputedAt)
}
