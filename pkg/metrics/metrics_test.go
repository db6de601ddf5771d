package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveStore(t *testing.T) {
	before := testutil.ToFloat64(StoreOperations.WithLabelValues("projects", "list", "error"))
	ObserveStore("projects", "list", errors.New("down"))
	ObserveStore("projects", "list", nil)
	require.Equal(t, before+1, testutil.ToFloat64(StoreOperations.WithLabelValues("projects", "list", "error")))
	require.GreaterOrEqual(t, testutil.ToFloat64(StoreOperations.WithLabelValues("projects", "list", "ok")), 1.0)
}

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)
	ObserveMutation("skills", "create")
	n, err := testutil.GatherAndCount(reg, "devfolio_content_mutations_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
