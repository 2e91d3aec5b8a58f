package evidencecheck

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/edubba/edubba/cmd/loops/metrics"
	"github.com/edubba/edubba/cmd/loops/recurring"
	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/evidence/db"
)

// initial value for task: references probed so far.
func Seed() int {
	return 0
}

const probeTimeout = 10 * time.Second

// outcomes of a probe.
const (
	Reachable    = "reachable"
	Unreachable  = "unreachable"
	Unverifiable = "unverifiable"
)

// Task drains the evidence check queue, one reference per cycle.
//
// The probe is best effort: its outcome is logged and counted, never
// stored, and it never rejects the evidence. Non-http(s) references
// (museum numbers, plate citations) are unverifiable by nature.
func Task(
	logger *log.Logger,
	dbEvidence kdb.EvidenceInterface,
	client *http.Client,
) recurring.Task[int] {
	return func(ctx context.Context, probed int) (int, bool, error) {
		popped, err := dbEvidence.PopCheck(ctx, func(check domain.EvidenceCheck) error {
			outcome := probe(ctx, client, check.Reference)
			logger.Printf(
				"evidence %s: reference %q is %s",
				check.EvidenceId, check.Reference, outcome,
			)
			metrics.EvidenceCheck.WithLabelValues(outcome).Inc()
			return nil
		})
		if err != nil {
			return probed, false, err
		}
		if !popped {
			return probed, false, nil
		}
		return probed + 1, true, nil
	}
}

func probe(ctx context.Context, client *http.Client, reference string) string {
	u, err := url.Parse(reference)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Unverifiable
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, reference, nil)
	if err != nil {
		return Unverifiable
	}

	resp, err := client.Do(req)
	if err != nil {
		return Unreachable
	}
	resp.Body.Close()

	if resp.StatusCode < 400 {
		return Reachable
	}
	return Unreachable
}
