package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PipelineRecompute counts rollup recomputations by result:
	// ok, failed (the artifact stays stale) or error (infrastructure).
	PipelineRecompute = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edubba_pipeline_recompute_total",
			Help: "pipeline rollup recomputations, by result",
		},
		[]string{"result"},
	)

	// EvidenceCheck counts evidence reference probes by outcome:
	// reachable, unreachable or unverifiable (not an http(s) reference).
	EvidenceCheck = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edubba_evidence_check_total",
			Help: "evidence reference reachability probes, by outcome",
		},
		[]string{"outcome"},
	)
)

// Serve exposes /metrics on the port until ctx is done.
func Serve(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		qctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(qctx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
