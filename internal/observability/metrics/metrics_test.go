package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestIncAmortizationBucketsSource(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncAmortization("sale:1234567890123456789")
	m.IncAmortization("sale:42")
	m.IncAmortization("manual")
	m.IncAmortization("ajuste de cierre")

	require.Equal(t, 2.0, testutil.ToFloat64(m.amortizations.WithLabelValues("sale")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.amortizations.WithLabelValues("manual")))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.IncEntryPosted("posted")
	m.IncEntryRejected("unbalanced")
	m.IncAmortization("manual")
	m.IncSaleIngested()
}
