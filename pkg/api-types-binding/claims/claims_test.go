package claims_test

import (
	"encoding/json"
	"testing"
	"time"

	apiclaims "github.com/edubba/edubba/pkg/api/types/claims"
	apidecisions "github.com/edubba/edubba/pkg/api/types/decisions"
	apiruns "github.com/edubba/edubba/pkg/api/types/runs"
	bindclaims "github.com/edubba/edubba/pkg/api-types-binding/claims"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/pointer"
	"github.com/edubba/edubba/pkg/utils/rfctime"
	"github.com/edubba/edubba/pkg/utils/try"
)

func TestComposeDetail(t *testing.T) {

	producedAt := try.To(time.Parse(time.RFC3339, "2025-10-01T12:00:00+00:00")).OrFatal(t)
	decidedAt := try.To(time.Parse(time.RFC3339, "2025-10-02T09:30:00+00:00")).OrFatal(t)

	for name, testcase := range map[string]struct {
		when domain.Claim
		then apiclaims.Detail
	}{
		"When a claim with a decision chain head is passed, it should compose a Detail corresponding to the claim.": {
			when: domain.Claim{
				ClaimId: "claim-1",
				Body: domain.SignReading{
					SignInstanceId: 42,
					Value:          "ud",
					SignName:       "UD",
				},
				Confidence: pointer.Ref(0.93),
				Note:       "upper edge, partly broken",
				ProducedBy: domain.Run{
					RunId:        "run-1",
					SourceType:   domain.SourceModel,
					SourceName:   "sign-reader",
					ModelVersion: "2.1.0",
					Method:       "beam search",
					CreatedAt:    producedAt,
				},
				IsConsensus: true,
				CurrentDecision: &domain.Decision{
					DecisionId:   "decision-2",
					ClaimId:      "claim-1",
					Verdict:      domain.VerdictAccept,
					Method:       domain.MethodEditorial,
					Rationale:    "collation photo confirms the reading",
					DecidedBy:    "scholar-1",
					SupersedesId: pointer.Ref("decision-1"),
					DecidedAt:    decidedAt,
				},
				CreatedAt: producedAt,
			},
			then: apiclaims.Detail{
				ClaimId: "claim-1",
				Kind:    "sign_reading",
				Target:  apiclaims.Target{Kind: "sign_reading", Id: 42},
				Payload: json.RawMessage(
					`{"signInstanceId":42,"value":"ud","signName":"UD"}`,
				),
				Confidence: pointer.Ref(0.93),
				Note:       "upper edge, partly broken",
				ProducedBy: apiruns.Detail{
					RunId:        "run-1",
					SourceType:   "model",
					SourceName:   "sign-reader",
					ModelVersion: "2.1.0",
					Method:       "beam search",
					CreatedAt:    rfctime.New(producedAt),
				},
				IsConsensus: true,
				CurrentDecision: &apidecisions.Detail{
					DecisionId:   "decision-2",
					ClaimId:      "claim-1",
					Verdict:      "accept",
					Method:       "editorial",
					Rationale:    "collation photo confirms the reading",
					DecidedBy:    "scholar-1",
					SupersedesId: pointer.Ref("decision-1"),
					DecidedAt:    rfctime.New(decidedAt),
				},
				CreatedAt: rfctime.New(producedAt),
			},
		},
		"When a claim never adjudicated is passed, it should compose a Detail without CurrentDecision.": {
			when: domain.Claim{
				ClaimId: "claim-2",
				Body: domain.FragmentJoin{
					ArtifactId:      9,
					JoinsArtifactId: 13,
					Position:        "lower left corner",
				},
				ProducedBy: domain.Run{
					RunId:      "run-2",
					SourceType: domain.SourceHuman,
					SourceName: "manual annotation",
					ScholarId:  "scholar-2",
					CreatedAt:  producedAt,
				},
				CreatedAt: producedAt,
			},
			then: apiclaims.Detail{
				ClaimId: "claim-2",
				Kind:    "fragment_join",
				Target:  apiclaims.Target{Kind: "fragment_join", Id: 9},
				Payload: json.RawMessage(
					`{"artifactId":9,"joinsArtifactId":13,"position":"lower left corner"}`,
				),
				ProducedBy: apiruns.Detail{
					RunId:      "run-2",
					SourceType: "human",
					SourceName: "manual annotation",
					ScholarId:  "scholar-2",
					CreatedAt:  rfctime.New(producedAt),
				},
				CreatedAt: rfctime.New(producedAt),
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := bindclaims.ComposeDetail(testcase.when)
			if !actual.Equal(&testcase.then) {
				t.Errorf(
					"unexpected detail:\n===actual===\n%+v\n===expected===\n%+v",
					actual, testcase.then,
				)
			}
		})
	}
}
