package runs

import (
	apiruns "github.com/edubba/edubba/pkg/api/types/runs"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

func ComposeDetail(r domain.Run) apiruns.Detail {
	return apiruns.Detail{
		RunId:        r.RunId,
		SourceType:   r.SourceType.String(),
		SourceName:   r.SourceName,
		ModelVersion: r.ModelVersion,
		ScholarId:    r.ScholarId,
		Method:       r.Method,
		CorpusScope:  r.CorpusScope,
		CreatedAt:    rfctime.New(r.CreatedAt),
	}
}
