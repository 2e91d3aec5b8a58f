package domain

import (
	"fmt"
	"time"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/utils/cmp"
)

// PipelineLayer names one processing layer of an artifact.
type PipelineLayer string

const (
	// fragment joins settled.
	LayerPhysical PipelineLayer = "physical"

	// sign instances read.
	LayerGraphemic PipelineLayer = "graphemic"

	// lines fully readable (every sign instance on the line has a
	// consensus reading).
	LayerReading PipelineLayer = "reading"

	// tokens lemmatized.
	LayerLinguistic PipelineLayer = "linguistic"

	// lines translated.
	LayerSemantic PipelineLayer = "semantic"
)

func (l PipelineLayer) String() string {
	return string(l)
}

func AsPipelineLayer(s string) (PipelineLayer, error) {
	switch l := PipelineLayer(s); l {
	case LayerPhysical, LayerGraphemic, LayerReading, LayerLinguistic, LayerSemantic:
		return l, nil
	default:
		return "", fmt.Errorf("%w: unknown pipeline layer: %s", domerr.ErrInvalid, s)
	}
}

// PipelineLayers lists the layers in processing order.
func PipelineLayers() []PipelineLayer {
	return []PipelineLayer{
		LayerPhysical, LayerGraphemic, LayerReading, LayerLinguistic, LayerSemantic,
	}
}

// LayerStatus counts how much of one layer is settled by consensus.
type LayerStatus struct {
	// units the artifact has on this layer.
	Expected int

	// units with a consensus annotation.
	Covered int
}

// Completion is the covered ratio of the layer.
// A layer with nothing expected counts as complete.
func (s LayerStatus) Completion() float64 {
	if s.Expected == 0 {
		return 1.0
	}
	return float64(s.Covered) / float64(s.Expected)
}

// QualityScore folds layer completions into one number:
//
//	0.2*physical + 0.3*reading + 0.25*linguistic + 0.25*semantic
//
// The graphemic layer is reported but carries no weight of its own
// since the reading layer already subsumes it per line.
func QualityScore(layers map[PipelineLayer]LayerStatus) float64 {
	return 0.2*layers[LayerPhysical].Completion() +
		0.3*layers[LayerReading].Completion() +
		0.25*layers[LayerLinguistic].Completion() +
		0.25*layers[LayerSemantic].Completion()
}

// PipelineStatus is the per-artifact rollup of consensus coverage.
type PipelineStatus struct {
	ArtifactId int64
	Layers     map[PipelineLayer]LayerStatus

	QualityScore float64

	// true when the row may not reflect the latest decisions:
	// either the aggregation loop has not caught up, or the last
	// recomputation failed.
	Stale bool

	ComputedAt time.Time
}

func (p PipelineStatus) Equal(other PipelineStatus) bool {
	return p.ArtifactId == other.ArtifactId &&
		cmp.MapEq(p.Layers, other.Layers) &&
		p.QualityScore == other.QualityScore &&
		p.Stale == other.Stale &&
		p.ComputedAt.Equal(other.ComputedAt)
}

// ZeroPipelineStatus is the reading for an artifact never aggregated:
// all counters zero, no score, flagged stale.
func ZeroPipelineStatus(artifactId int64) PipelineStatus {
	layers := map[PipelineLayer]LayerStatus{}
	for _, l := range PipelineLayers() {
		layers[l] = LayerStatus{}
	}
	return PipelineStatus{ArtifactId: artifactId, Layers: layers, Stale: true}
}
