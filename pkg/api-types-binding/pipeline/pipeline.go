package pipeline

import (
	apipipeline "github.com/edubba/edubba/pkg/api/types/pipeline"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

func ComposeStatus(s domain.PipelineStatus) apipipeline.Status {
	layers := map[string]apipipeline.Layer{}
	for name, l := range s.Layers {
		layers[name.String()] = apipipeline.Layer{
			Expected:   l.Expected,
			Covered:    l.Covered,
			Completion: l.Completion(),
		}
	}
	return apipipeline.Status{
		ArtifactId:   s.ArtifactId,
		Layers:       layers,
		QualityScore: s.QualityScore,
		Stale:        s.Stale,
		ComputedAt:   rfctime.New(s.ComputedAt),
	}
}
