package metrics

import (
	"strings"
	"testing"

	"github.com/coremud/engine/internal/core/ecs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource []ecs.PoolStats

func (s staticSource) Snapshot() []ecs.PoolStats { return s }

func TestPoolCollector(t *testing.T) {
	t.Parallel()

	c := NewPoolCollector(staticSource{
		{Name: "health", Capacity: 16, Free: 10, InUse: 6, Pending: 2, Grows: 1, Created: 7},
		{Name: "power", Capacity: 10, Free: 10},
	})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	assert.Equal(t, 12, testutil.CollectAndCount(c))

	expected := `
# HELP coremud_pool_in_use Number of components handed out.
# TYPE coremud_pool_in_use gauge
coremud_pool_in_use{pool="health"} 6
coremud_pool_in_use{pool="power"} 0
# HELP coremud_pool_grows_total Number of times the pool's store was grown.
# TYPE coremud_pool_grows_total counter
coremud_pool_grows_total{pool="health"} 1
coremud_pool_grows_total{pool="power"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"coremud_pool_in_use", "coremud_pool_grows_total"))
}

func TestPoolCollector_Registry(t *testing.T) {
	t.Parallel()

	pools := ecs.NewPoolRegistry(nil)
	c := NewPoolCollector(pools)
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}
