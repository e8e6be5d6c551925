package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.SetPagesLoaded(10)
	r.ObserveVerifyDuration(time.Second)
	r.SetBrokenLinks(0)
	r.IncResolve(true)
}

func TestPrometheusRecorder_RecordsValues(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.SetPagesLoaded(42)
	r.SetBrokenLinks(3)
	r.IncBuildOutcome(OutcomeSuccess)
	r.IncBuildOutcome(OutcomeSuccess)
	r.IncBuildOutcome(OutcomeFailed)
	r.IncResolve(true)
	r.IncResolve(false)

	require.Equal(t, 42.0, testutil.ToFloat64(r.pagesLoaded))
	require.Equal(t, 3.0, testutil.ToFloat64(r.brokenLinks))
	require.Equal(t, 2.0, testutil.ToFloat64(r.buildOutcome.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.buildOutcome.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.resolves.WithLabelValues("hit")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.resolves.WithLabelValues("miss")))
}

func TestPrometheusRecorder_NilReceiverSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.SetPagesLoaded(1)
	r.IncResolve(false)
}
