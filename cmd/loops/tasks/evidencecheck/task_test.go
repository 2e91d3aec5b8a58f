package evidencecheck_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edubba/edubba/cmd/loops/tasks/evidencecheck"
	"github.com/edubba/edubba/pkg/domain"
	evidencemock "github.com/edubba/edubba/pkg/domain/evidence/db/mock"
)

func TestTask(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	popping := func(check domain.EvidenceCheck) func(context.Context, func(domain.EvidenceCheck) error) (bool, error) {
		return func(_ context.Context, callback func(domain.EvidenceCheck) error) (bool, error) {
			if err := callback(check); err != nil {
				return true, err
			}
			return true, nil
		}
	}

	t.Run("it probes an http reference and continues", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("probe should be a HEAD request. actual = %s", r.Method)
				}
				w.WriteHeader(http.StatusOK)
			},
		))
		defer server.Close()

		ievidence := evidencemock.NewEvidenceInterface()
		ievidence.Impl.PopCheck = popping(domain.EvidenceCheck{
			EvidenceId: "evidence-1",
			Reference:  server.URL,
			QueuedAt:   time.Now(),
		})

		testee := evidencecheck.Task(logger, ievidence, server.Client())

		probed, ok, err := testee(context.Background(), evidencecheck.Seed())
		if err != nil {
			t.Fatalf("task causes error: %+v", err)
		}
		if !ok {
			t.Error("task should report backlog")
		}
		if probed != 1 {
			t.Errorf("probed count should be 1. actual = %d", probed)
		}
	})

	t.Run("a dead reference is logged, never an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		))
		defer server.Close()

		ievidence := evidencemock.NewEvidenceInterface()
		ievidence.Impl.PopCheck = popping(domain.EvidenceCheck{
			EvidenceId: "evidence-2",
			Reference:  server.URL + "/gone",
			QueuedAt:   time.Now(),
		})

		testee := evidencecheck.Task(logger, ievidence, server.Client())

		probed, ok, err := testee(context.Background(), evidencecheck.Seed())
		if err != nil {
			t.Fatalf("task causes error: %+v", err)
		}
		if !ok || probed != 1 {
			t.Errorf("the check should count as done. actual = (%d, %v)", probed, ok)
		}
	})

	t.Run("a non-http reference is unverifiable, never an error", func(t *testing.T) {
		ievidence := evidencemock.NewEvidenceInterface()
		ievidence.Impl.PopCheck = popping(domain.EvidenceCheck{
			EvidenceId: "evidence-3",
			Reference:  "BM 12345, plate XII",
			QueuedAt:   time.Now(),
		})

		testee := evidencecheck.Task(logger, ievidence, http.DefaultClient)

		probed, ok, err := testee(context.Background(), evidencecheck.Seed())
		if err != nil {
			t.Fatalf("task causes error: %+v", err)
		}
		if !ok || probed != 1 {
			t.Errorf("the check should count as done. actual = (%d, %v)", probed, ok)
		}
	})

	t.Run("when the queue is empty, it reports no backlog", func(t *testing.T) {
		ievidence := evidencemock.NewEvidenceInterface()
		ievidence.Impl.PopCheck = func(context.Context, func(domain.EvidenceCheck) error) (bool, error) {
			return false, nil
		}

		testee := evidencecheck.Task(logger, ievidence, http.DefaultClient)

		probed, ok, err := testee(context.Background(), 5)
		if err != nil {
			t.Fatalf("task causes error: %+v", err)
		}
		if ok {
			t.Error("task should report no backlog")
		}
		if probed != 5 {
			t.Errorf("probed count should stay 5. actual = %d", probed)
		}
	})

	t.Run("when the database is unreachable, it breaks with the error", func(t *testing.T) {
		fakeError := errors.New("fake error")
		ievidence := evidencemock.NewEvidenceInterface()
		ievidence.Impl.PopCheck = func(context.Context, func(domain.EvidenceCheck) error) (bool, error) {
			return false, fakeError
		}

		testee := evidencecheck.Task(logger, ievidence, http.DefaultClient)

		_, _, err := testee(context.Background(), evidencecheck.Seed())
		if !errors.Is(err, fakeError) {
			t.Fatalf("task should propagate the error. actual = %+v", err)
		}
	})
}
