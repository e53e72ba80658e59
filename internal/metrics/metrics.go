// Package metrics exposes prometheus counters for validation and fetch outcomes.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fee check outcomes.
const (
	FeeOK           = "ok"
	FeeInsufficient = "insufficient"
	FeeFailed       = "failed"
	FeeSkipped      = "skipped"
	FeeCanceled     = "canceled"
)

// Fetch kinds and outcomes.
const (
	FetchUTXOs   = "utxos"
	FetchHistory = "history"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// FeeChecks counts fee estimator runs by outcome.
	FeeChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_fee_checks_total",
			Help: "Total number of send-form fee checks",
		},
		[]string{"outcome"},
	)

	// StaleResults counts send-form validation results dropped because a
	// newer edit arrived first.
	StaleResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_form_stale_results_total",
			Help: "Total number of discarded out-of-date form validation results",
		},
	)

	// Fetches counts UTXO and history requests by kind and outcome.
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_fetches_total",
			Help: "Total number of node fetches",
		},
		[]string{"kind", "outcome"},
	)

	// FetchLatency tracks fetch latency by kind.
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_fetch_latency_seconds",
			Help:    "Node fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

// ObserveFetch records the outcome and latency of one fetch.
func ObserveFetch(kind string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	Fetches.WithLabelValues(kind, outcome).Inc()
	FetchLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
