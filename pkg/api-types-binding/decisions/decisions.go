package decisions

import (
	apidecisions "github.com/edubba/edubba/pkg/api/types/decisions"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

func ComposeDetail(d domain.Decision) apidecisions.Detail {
	return apidecisions.Detail{
		DecisionId:   d.DecisionId,
		ClaimId:      d.ClaimId,
		Verdict:      d.Verdict.String(),
		Method:       d.Method.String(),
		Rationale:    d.Rationale,
		DecidedBy:    d.DecidedBy,
		SupersedesId: d.SupersedesId,
		DecidedAt:    rfctime.New(d.DecidedAt),
	}
}
