package claims

import (
	"encoding/json"

	apiclaims "github.com/edubba/edubba/pkg/api/types/claims"
	apidecisions "github.com/edubba/edubba/pkg/api/types/decisions"
	binddecisions "github.com/edubba/edubba/pkg/api-types-binding/decisions"
	bindruns "github.com/edubba/edubba/pkg/api-types-binding/runs"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

func ComposeTarget(t domain.TargetRef) apiclaims.Target {
	return apiclaims.Target{Kind: t.Kind.String(), Id: t.Id}
}

func ComposeDetail(c domain.Claim) apiclaims.Detail {
	// claim bodies are plain structs of scalars; marshalling cannot fail.
	payload, _ := json.Marshal(c.Body)

	var head *apidecisions.Detail
	if d := c.CurrentDecision; d != nil {
		composed := binddecisions.ComposeDetail(*d)
		head = &composed
	}

	return apiclaims.Detail{
		ClaimId:         c.ClaimId,
		Kind:            c.Kind().String(),
		Target:          ComposeTarget(c.Target()),
		Payload:         payload,
		Confidence:      c.Confidence,
		Note:            c.Note,
		ProducedBy:      bindruns.ComposeDetail(c.ProducedBy),
		IsConsensus:     c.IsConsensus,
		CurrentDecision: head,
		CreatedAt:       rfctime.New(c.CreatedAt),
	}
}

func ComposeAdjudicated(r domain.RecordResult) apiclaims.Adjudicated {
	return apiclaims.Adjudicated{
		Decision: binddecisions.ComposeDetail(r.Decision),
		Claim:    ComposeDetail(r.Claim),
	}
}
