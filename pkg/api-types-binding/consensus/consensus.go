package consensus

import (
	apiconsensus "github.com/edubba/edubba/pkg/api/types/consensus"
	bindclaims "github.com/edubba/edubba/pkg/api-types-binding/claims"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/slices"
)

func ComposeResult(r domain.ConsensusResult) apiconsensus.Result {
	out := apiconsensus.Result{
		Target: bindclaims.ComposeTarget(r.Target),
		State:  r.State.String(),
	}
	if c := r.Consensus; c != nil {
		composed := bindclaims.ComposeDetail(*c)
		out.Consensus = &composed
	}
	if r.Competing != nil {
		out.Competing = slices.Map(r.Competing, bindclaims.ComposeDetail)
	}
	return out
}
