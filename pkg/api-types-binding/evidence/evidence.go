package evidence

import (
	apievidence "github.com/edubba/edubba/pkg/api/types/evidence"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

func ComposeDetail(e domain.Evidence) apievidence.Detail {
	return apievidence.Detail{
		EvidenceId:    e.EvidenceId,
		ClaimId:       e.ClaimId,
		Type:          e.Type.String(),
		Reference:     e.Reference,
		SupportsClaim: e.SupportsClaim,
		AddedBy:       e.AddedBy,
		Note:          e.Note,
		AddedAt:       rfctime.New(e.AddedAt),
	}
}
