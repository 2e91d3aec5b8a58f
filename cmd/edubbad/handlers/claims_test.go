package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edubba/edubba/cmd/edubbad/handlers"
	httptestutil "github.com/edubba/edubba/internal/testutils/http"
	apiclaims "github.com/edubba/edubba/pkg/api/types/claims"
	apidecisions "github.com/edubba/edubba/pkg/api/types/decisions"
	"github.com/edubba/edubba/pkg/cache"
	"github.com/edubba/edubba/pkg/domain"
	claimmock "github.com/edubba/edubba/pkg/domain/claim/db/mock"
	decisionmock "github.com/edubba/edubba/pkg/domain/decision/db/mock"
	"github.com/edubba/edubba/pkg/utils/pointer"
	"github.com/edubba/edubba/pkg/utils/try"
)

func TestSubmitClaimHandler(t *testing.T) {
	run := domain.Run{
		RunId:        "run-1",
		SourceType:   domain.SourceModel,
		SourceName:   "sign-reader",
		ModelVersion: "2.1.0",
	}

	newClaim := func() domain.Claim {
		return domain.Claim{
			ClaimId: "claim-1",
			Body: domain.SignReading{
				SignInstanceId: 42,
				Value:          "ud",
				SignName:       "UD",
			},
			Confidence: pointer.Ref(0.93),
			ProducedBy: run,
			CreatedAt:  try.To(time.Parse(time.RFC3339, "2025-10-01T12:00:00+00:00")).OrFatal(t),
		}
	}

	body := `{
		"kind": "sign_reading",
		"payload": {"signInstanceId": 42, "value": "ud", "signName": "UD"},
		"confidence": 0.93
	}`

	t.Run("it registers a claim on behalf of the token's run", func(t *testing.T) {
		kp, token := signedRunToken(t, run)

		claim := newClaim()
		iclaim := claimmock.NewClaimInterface()
		iclaim.Impl.Register = func(_ context.Context, spec domain.ClaimSpec) (domain.Claim, error) {
			if spec.RunId != run.RunId {
				t.Errorf("Register should be called with the token's runId. actual = %s", spec.RunId)
			}
			if spec.Body.Kind() != domain.KindSignReading {
				t.Errorf("Register should be called with a sign_reading body. actual = %s", spec.Body.Kind())
			}
			return claim, nil
		}

		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)
		consensusCache.Set(claim.Target().String(), domain.ConsensusResult{
			Target: claim.Target(), State: domain.ConsensusUnannotated,
		})

		testee := handlers.RequireRunToken(kp)(
			handlers.SubmitClaimHandler(iclaim, consensusCache),
		)

		e := echo.New()
		ectx, resprec := httptestutil.Post(
			e, "/api/claims/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/")

		if err := testee(ectx); err != nil {
			t.Fatalf("SubmitClaimHandler causes error: %+v", err)
		}
		if got := resprec.Result().StatusCode; got != http.StatusCreated {
			t.Errorf("status code is not 201. actual = %d", got)
		}

		resp := apiclaims.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not Detail: %s", resprec.Body.String())
		}
		if resp.ClaimId != claim.ClaimId {
			t.Errorf("claimId is not expected. actual = %s", resp.ClaimId)
		}
		if resp.Kind != "sign_reading" {
			t.Errorf("kind is not expected. actual = %s", resp.Kind)
		}

		if _, ok := consensusCache.Get(claim.Target().String()); ok {
			t.Error("the cached consensus should be invalidated")
		}
	})

	t.Run("when the same assertion is already registered, response 200 with the existing claim", func(t *testing.T) {
		kp, token := signedRunToken(t, run)

		claim := newClaim()
		iclaim := claimmock.NewClaimInterface()
		iclaim.Impl.Register = func(context.Context, domain.ClaimSpec) (domain.Claim, error) {
			return domain.Claim{}, domain.ErrClaimExists{ClaimId: claim.ClaimId}
		}
		iclaim.Impl.Get = func(_ context.Context, claimIds []string) (map[string]domain.Claim, error) {
			return map[string]domain.Claim{claim.ClaimId: claim}, nil
		}

		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)
		consensusCache.Set(claim.Target().String(), domain.ConsensusResult{
			Target: claim.Target(), State: domain.ConsensusUnannotated,
		})

		testee := handlers.RequireRunToken(kp)(
			handlers.SubmitClaimHandler(iclaim, consensusCache),
		)

		e := echo.New()
		ectx, resprec := httptestutil.Post(
			e, "/api/claims/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/")

		if err := testee(ectx); err != nil {
			t.Fatalf("SubmitClaimHandler causes error: %+v", err)
		}
		if got := resprec.Result().StatusCode; got != http.StatusOK {
			t.Errorf("status code is not 200. actual = %d", got)
		}

		resp := apiclaims.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not Detail: %s", resprec.Body.String())
		}
		if resp.ClaimId != claim.ClaimId {
			t.Errorf("claimId is not the existing one. actual = %s", resp.ClaimId)
		}

		if _, ok := consensusCache.Get(claim.Target().String()); !ok {
			t.Error("a replay should leave the cached consensus alone")
		}
	})

	t.Run("when the request carries no token, response 401", func(t *testing.T) {
		kp, _ := signedRunToken(t, run)
		iclaim := claimmock.NewClaimInterface()
		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)

		testee := handlers.RequireRunToken(kp)(
			handlers.SubmitClaimHandler(iclaim, consensusCache),
		)

		e := echo.New()
		ectx, _ := httptestutil.Post(
			e, "/api/claims/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		ectx.SetPath("/api/claims/")

		err := testee(ectx)
		if herr := new(echo.HTTPError); !errors.As(err, &herr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		} else if herr.Code != http.StatusUnauthorized {
			t.Errorf("error code is not %d. actual = %d", http.StatusUnauthorized, herr.Code)
		}

		if len(iclaim.Calls.Register) != 0 {
			t.Error("Register should not be called")
		}
	})

	t.Run("when the token is garbage, response 401", func(t *testing.T) {
		kp, _ := signedRunToken(t, run)
		iclaim := claimmock.NewClaimInterface()
		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)

		testee := handlers.RequireRunToken(kp)(
			handlers.SubmitClaimHandler(iclaim, consensusCache),
		)

		e := echo.New()
		ectx, _ := httptestutil.Post(
			e, "/api/claims/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken("not.a.token"),
		)
		ectx.SetPath("/api/claims/")

		err := testee(ectx)
		if herr := new(echo.HTTPError); !errors.As(err, &herr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		} else if herr.Code != http.StatusUnauthorized {
			t.Errorf("error code is not %d. actual = %d", http.StatusUnauthorized, herr.Code)
		}
	})

	t.Run("when the target entity does not exist, response 400", func(t *testing.T) {
		kp, token := signedRunToken(t, run)

		iclaim := claimmock.NewClaimInterface()
		iclaim.Impl.Register = func(context.Context, domain.ClaimSpec) (domain.Claim, error) {
			return domain.Claim{}, domain.ErrInvalidTarget
		}
		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)

		testee := handlers.RequireRunToken(kp)(
			handlers.SubmitClaimHandler(iclaim, consensusCache),
		)

		e := echo.New()
		ectx, _ := httptestutil.Post(
			e, "/api/claims/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/")

		err := testee(ectx)
		if herr := new(echo.HTTPError); !errors.As(err, &herr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		} else if herr.Code != http.StatusBadRequest {
			t.Errorf("error code is not %d. actual = %d", http.StatusBadRequest, herr.Code)
		}
	})

	t.Run("when the payload does not fit the kind, response 400", func(t *testing.T) {
		kp, token := signedRunToken(t, run)
		iclaim := claimmock.NewClaimInterface()
		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)

		testee := handlers.RequireRunToken(kp)(
			handlers.SubmitClaimHandler(iclaim, consensusCache),
		)

		e := echo.New()
		ectx, _ := httptestutil.Post(
			e, "/api/claims/",
			strings.NewReader(`{"kind": "sign_reading", "payload": {"signInstanceId": "not-a-number"}}`),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/")

		err := testee(ectx)
		if herr := new(echo.HTTPError); !errors.As(err, &herr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		} else if herr.Code != http.StatusBadRequest {
			t.Errorf("error code is not %d. actual = %d", http.StatusBadRequest, herr.Code)
		}

		if len(iclaim.Calls.Register) != 0 {
			t.Error("Register should not be called")
		}
	})
}

func TestFindClaimHandler(t *testing.T) {
	t.Run("it lists claims on the target", func(t *testing.T) {
		claims := []domain.Claim{
			{
				ClaimId:    "claim-2",
				Body:       domain.Lemmatization{TokenId: 7, Lemma: "lugal"},
				ProducedBy: domain.Run{RunId: "run-2", SourceType: domain.SourceHuman, SourceName: "manual", ScholarId: "scholar-1"},
			},
			{
				ClaimId:    "claim-1",
				Body:       domain.Lemmatization{TokenId: 7, Lemma: "lugal[king]"},
				Confidence: pointer.Ref(0.8),
				ProducedBy: domain.Run{RunId: "run-1", SourceType: domain.SourceModel, SourceName: "lemmatizer", ModelVersion: "1.0"},
			},
		}

		iclaim := claimmock.NewClaimInterface()
		iclaim.Impl.ListByTarget = func(_ context.Context, target domain.TargetRef) ([]domain.Claim, error) {
			want := domain.TargetRef{Kind: domain.KindLemmatization, Id: 7}
			if target != want {
				t.Errorf("ListByTarget should be called with %s. actual = %s", want, target)
			}
			return claims, nil
		}

		testee := handlers.FindClaimHandler(iclaim)

		e := echo.New()
		ectx, resprec := httptestutil.Get(e, "/api/claims/?kind=lemmatization&target=7")
		ectx.SetPath("/api/claims/")

		if err := testee(ectx); err != nil {
			t.Fatalf("FindClaimHandler causes error: %+v", err)
		}
		if got := resprec.Result().StatusCode; got != http.StatusOK {
			t.Errorf("status code is not 200. actual = %d", got)
		}

		resp := []apiclaims.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not []Detail: %s", resprec.Body.String())
		}
		if len(resp) != 2 || resp[0].ClaimId != "claim-2" || resp[1].ClaimId != "claim-1" {
			t.Errorf("response is not expected. actual = %+v", resp)
		}
	})

	t.Run("when the query misses kind or target, response 400", func(t *testing.T) {
		for name, query := range map[string]string{
			"no kind":            "?target=7",
			"no target":          "?kind=lemmatization",
			"non-integer target": "?kind=lemmatization&target=seven",
			"unknown kind":       "?kind=guesswork&target=7",
		} {
			t.Run(name, func(t *testing.T) {
				iclaim := claimmock.NewClaimInterface()
				testee := handlers.FindClaimHandler(iclaim)

				e := echo.New()
				ectx, _ := httptestutil.Get(e, "/api/claims/"+query)
				ectx.SetPath("/api/claims/")

				err := testee(ectx)
				if herr := new(echo.HTTPError); !errors.As(err, &herr) {
					t.Fatalf("error is not echo.HTTPError: %+v", err)
				} else if herr.Code != http.StatusBadRequest {
					t.Errorf("error code is not %d. actual = %d", http.StatusBadRequest, herr.Code)
				}
			})
		}
	})
}

func TestRecordDecisionHandler(t *testing.T) {
	editor := domain.Run{
		RunId:      "run-editor",
		SourceType: domain.SourceHuman,
		SourceName: "editorial review",
		ScholarId:  "scholar-1",
	}

	body := `{
		"verdict": "accept",
		"method": "editorial",
		"rationale": "collation photo confirms the reading",
		"supersedes": "decision-1"
	}`

	t.Run("it records a decision and invalidates the caches", func(t *testing.T) {
		kp, token := signedRunToken(t, editor)

		claim := domain.Claim{
			ClaimId:     "claim-1",
			Body:        domain.SignReading{SignInstanceId: 42, Value: "ud"},
			ProducedBy:  domain.Run{RunId: "run-1", SourceType: domain.SourceModel, SourceName: "sign-reader", ModelVersion: "2.1.0"},
			IsConsensus: true,
		}
		decision := domain.Decision{
			DecisionId:   "decision-2",
			ClaimId:      claim.ClaimId,
			Verdict:      domain.VerdictAccept,
			Method:       domain.MethodEditorial,
			Rationale:    "collation photo confirms the reading",
			DecidedBy:    "scholar-1",
			SupersedesId: pointer.Ref("decision-1"),
		}
		claim.CurrentDecision = &decision

		idecision := decisionmock.NewDecisionInterface()
		idecision.Impl.Record = func(_ context.Context, spec domain.DecisionSpec) (domain.RecordResult, error) {
			if spec.ClaimId != claim.ClaimId {
				t.Errorf("Record should be called with the claim in path. actual = %s", spec.ClaimId)
			}
			if spec.DecidedBy != "scholar-1" {
				t.Errorf("Record should be called with the token's actor. actual = %s", spec.DecidedBy)
			}
			if spec.Supersedes == nil || *spec.Supersedes != "decision-1" {
				t.Errorf("Record should be called with the cited head. actual = %v", spec.Supersedes)
			}
			return domain.RecordResult{Decision: decision, Claim: claim}, nil
		}

		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)
		consensusCache.Set(claim.Target().String(), domain.ConsensusResult{
			Target: claim.Target(), State: domain.ConsensusAmbiguous,
		})
		pipelineCache := cache.New[domain.PipelineStatus](time.Minute, time.Minute)
		pipelineCache.Set("9", domain.PipelineStatus{ArtifactId: 9})

		testee := handlers.RequireRunToken(kp)(
			handlers.RecordDecisionHandler(idecision, consensusCache, pipelineCache, "claimId"),
		)

		e := echo.New()
		ectx, resprec := httptestutil.Post(
			e, "/api/claims/claim-1/decisions/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/:claimId/decisions/")
		ectx.SetParamNames("claimId")
		ectx.SetParamValues("claim-1")

		if err := testee(ectx); err != nil {
			t.Fatalf("RecordDecisionHandler causes error: %+v", err)
		}
		if got := resprec.Result().StatusCode; got != http.StatusCreated {
			t.Errorf("status code is not 201. actual = %d", got)
		}

		resp := apiclaims.Adjudicated{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not Adjudicated: %s", resprec.Body.String())
		}
		if resp.Decision.DecisionId != decision.DecisionId {
			t.Errorf("decisionId is not expected. actual = %s", resp.Decision.DecisionId)
		}
		if !resp.Claim.IsConsensus {
			t.Error("the adjudicated claim should be consensus")
		}

		if _, ok := consensusCache.Get(claim.Target().String()); ok {
			t.Error("the cached consensus should be invalidated")
		}
		if _, ok := pipelineCache.Get("9"); ok {
			t.Error("the pipeline cache should be flushed")
		}
	})

	t.Run("when the chain has advanced, response 409", func(t *testing.T) {
		kp, token := signedRunToken(t, editor)

		idecision := decisionmock.NewDecisionInterface()
		idecision.Impl.Record = func(context.Context, domain.DecisionSpec) (domain.RecordResult, error) {
			return domain.RecordResult{}, domain.ErrDecisionOutdated
		}

		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)
		pipelineCache := cache.New[domain.PipelineStatus](time.Minute, time.Minute)

		testee := handlers.RequireRunToken(kp)(
			handlers.RecordDecisionHandler(idecision, consensusCache, pipelineCache, "claimId"),
		)

		e := echo.New()
		ectx, _ := httptestutil.Post(
			e, "/api/claims/claim-1/decisions/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/:claimId/decisions/")
		ectx.SetParamNames("claimId")
		ectx.SetParamValues("claim-1")

		err := testee(ectx)
		if herr := new(echo.HTTPError); !errors.As(err, &herr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		} else if herr.Code != http.StatusConflict {
			t.Errorf("error code is not %d. actual = %d", http.StatusConflict, herr.Code)
		}
	})

	t.Run("when an editorial decision has no rationale, response 400", func(t *testing.T) {
		kp, token := signedRunToken(t, editor)

		idecision := decisionmock.NewDecisionInterface()
		idecision.Impl.Record = func(context.Context, domain.DecisionSpec) (domain.RecordResult, error) {
			return domain.RecordResult{}, domain.ErrRationaleRequired
		}

		consensusCache := cache.New[domain.ConsensusResult](time.Minute, time.Minute)
		pipelineCache := cache.New[domain.PipelineStatus](time.Minute, time.Minute)

		testee := handlers.RequireRunToken(kp)(
			handlers.RecordDecisionHandler(idecision, consensusCache, pipelineCache, "claimId"),
		)

		e := echo.New()
		ectx, _ := httptestutil.Post(
			e, "/api/claims/claim-1/decisions/",
			strings.NewReader(`{"verdict": "accept", "method": "editorial"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.BearerToken(token),
		)
		ectx.SetPath("/api/claims/:claimId/decisions/")
		ectx.SetParamNames("claimId")
		ectx.SetParamValues("claim-1")

		err := testee(ectx)
		if herr := new(echo.HTTPError); !errors.As(err, &herr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		} else if herr.Code != http.StatusBadRequest {
			t.Errorf("error code is not %d. actual = %d", http.StatusBadRequest, herr.Code)
		}
	})
}

func TestListDecisionHandler(t *testing.T) {
	t.Run("it lists the decision chain, newest first", func(t *testing.T) {
		decisions := []domain.Decision{
			{
				DecisionId:   "decision-2",
				ClaimId:      "claim-1",
				Verdict:      domain.VerdictReject,
				Method:       domain.MethodEditorial,
				Rationale:    "the sign is broken; reading uncertain",
				DecidedBy:    "scholar-1",
				SupersedesId: pointer.Ref("decision-1"),
			},
			{
				DecisionId: "decision-1",
				ClaimId:    "claim-1",
				Verdict:    domain.VerdictAccept,
				Method:     domain.MethodVote,
				DecidedBy:  "committee",
			},
		}

		idecision := decisionmock.NewDecisionInterface()
		idecision.Impl.ListByClaim = func(_ context.Context, claimId string) ([]domain.Decision, error) {
			if claimId != "claim-1" {
				t.Errorf("ListByClaim should be called with claim-1. actual = %s", claimId)
			}
			return decisions, nil
		}

		testee := handlers.ListDecisionHandler(idecision, "claimId")

		e := echo.New()
		ectx, resprec := httptestutil.Get(e, "/api/claims/claim-1/decisions/")
		ectx.SetPath("/api/claims/:claimId/decisions/")
		ectx.SetParamNames("claimId")
		ectx.SetParamValues("claim-1")

		if err := testee(ectx); err != nil {
			t.Fatalf("ListDecisionHandler causes error: %+v", err)
		}
		if got := resprec.Result().StatusCode; got != http.StatusOK {
			t.Errorf("status code is not 200. actual = %d", got)
		}

		resp := []apidecisions.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not []Detail: %s", resprec.Body.String())
		}
		if len(resp) != 2 || resp[0].DecisionId != "decision-2" {
			t.Errorf("response is not expected. actual = %+v", resp)
		}
	})
}
