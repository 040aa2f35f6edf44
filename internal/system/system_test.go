package system

import (
	"testing"
	"time"

	"github.com/coremud/engine/internal/component"
	"github.com/coremud/engine/internal/core/ecs"
	coresys "github.com/coremud/engine/internal/core/system"
	"github.com/coremud/engine/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testProfiles = `
- name: power
  initial_size: 8
  resizable: false
- name: health
  initial_size: 4
  resizable: true
  resize_increment: 4
`

func newTestRegistry(t *testing.T) *ecs.PoolRegistry {
	t.Helper()
	table, err := data.ParsePoolTable([]byte(testProfiles))
	require.NoError(t, err)
	reg := ecs.NewPoolRegistry(zap.NewNop())
	require.NoError(t, component.RegisterPools(reg, table, zap.NewNop()))
	return reg
}

func statsByName(reg *ecs.PoolRegistry) map[string]ecs.PoolStats {
	out := make(map[string]ecs.PoolStats)
	for _, st := range reg.Snapshot() {
		out[st.Name] = st
	}
	return out
}

func TestWorkloadSystem(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	work, err := NewWorkloadSystem(reg, WorkloadConfig{
		Workers:        3,
		AcquirePerTick: 2,
		HoldTicks:      2,
	}, zap.NewNop())
	require.NoError(t, err)

	runner := coresys.NewRunner()
	runner.Register(NewCleanupSystem(reg))
	runner.Register(work)

	// Tick 1: 3 workers x 2 of each shape are taken.
	runner.Tick(time.Millisecond)
	st := statsByName(reg)
	assert.Equal(t, 6, st[component.PowerPool].InUse)
	assert.Equal(t, 6, st[component.HealthPool].InUse)

	// Tick 2: the power pool is fixed at 8, so four of six acquisitions miss.
	runner.Tick(time.Millisecond)
	st = statsByName(reg)
	assert.Equal(t, 8, st[component.PowerPool].InUse)
	assert.Equal(t, 12, st[component.HealthPool].InUse)
	assert.EqualValues(t, 4, work.Stats().Misses)

	// Tick 3: tick 1's leases are returned before acquiring, but they are
	// only reclaimed by the cleanup system at the end of the tick, so every
	// power acquisition misses.
	runner.Tick(time.Millisecond)
	st = statsByName(reg)
	assert.Equal(t, 2, st[component.PowerPool].InUse)
	assert.Equal(t, 12, st[component.HealthPool].InUse)
	assert.Equal(t, 0, st[component.PowerPool].Pending)
	assert.EqualValues(t, 10, work.Stats().Misses)

	work.ReleaseAll()
	reg.CleanUpAll()
	st = statsByName(reg)
	assert.Equal(t, 0, st[component.PowerPool].InUse)
	assert.Equal(t, 0, st[component.HealthPool].InUse)

	ws := work.Stats()
	assert.Equal(t, ws.Acquired, ws.Released)
}

func TestNewWorkloadSystem_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewWorkloadSystem(newTestRegistry(t), WorkloadConfig{Workers: 1, HoldTicks: 0}, zap.NewNop())
	require.ErrorContains(t, err, "hold ticks")

	_, err = NewWorkloadSystem(ecs.NewPoolRegistry(nil), WorkloadConfig{Workers: 1, HoldTicks: 1}, zap.NewNop())
	require.ErrorIs(t, err, ecs.ErrNoPool)
}

func TestReportSystem(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	reg := newTestRegistry(t)
	rep := NewReportSystem(reg, 2, zap.New(core))
	assert.Equal(t, coresys.PhaseReport, rep.Phase())

	rep.Update(time.Millisecond)
	assert.Equal(t, 0, logs.Len())

	rep.Update(time.Millisecond)
	entries := logs.FilterMessage("pool stats").All()
	require.Len(t, entries, 2)
	assert.Equal(t, component.HealthPool, entries[0].ContextMap()["pool"])
	assert.Equal(t, component.PowerPool, entries[1].ContextMap()["pool"])

	off := NewReportSystem(reg, 0, zap.New(core))
	off.Update(time.Millisecond)
	off.Update(time.Millisecond)
	assert.Equal(t, 2, logs.Len())
}

func TestCleanupSystem(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	sys := NewCleanupSystem(reg)
	assert.Equal(t, coresys.PhaseCleanup, sys.Phase())

	p, ok := ecs.NewPooled[*component.Power](reg)
	require.True(t, ok)
	require.NoError(t, ecs.Release(reg, p))

	sys.Update(time.Millisecond)
	assert.Equal(t, 0, statsByName(reg)[component.PowerPool].InUse)
}

func TestVitalsSystem(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	reg := newTestRegistry(t)
	sys, err := NewVitalsSystem(reg, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, coresys.PhasePostUpdate, sys.Phase())

	_, ok := ecs.NewPooled[*component.Health](reg)
	require.True(t, ok)
	hurt, ok := ecs.NewPooled[*component.Health](reg)
	require.True(t, ok)
	hurt.SetHealth(40)
	gone, ok := ecs.NewPooled[*component.Health](reg)
	require.True(t, ok)
	gone.SetHealth(0)

	sys.Update(time.Millisecond)
	assert.Equal(t, VitalsStats{Live: 3, Wounded: 1, Fallen: 1}, sys.Stats())
	assert.Equal(t, 1, logs.FilterMessage("fallen health components in use").Len())

	require.NoError(t, ecs.Release(reg, gone))
	require.NoError(t, ecs.Release(reg, hurt))
	reg.CleanUpAll()
	sys.Update(time.Millisecond)
	assert.Equal(t, VitalsStats{Live: 1}, sys.Stats(), "reclaimed components are not walked")

	_, err = NewVitalsSystem(ecs.NewPoolRegistry(nil), zap.NewNop())
	require.ErrorIs(t, err, ecs.ErrNoPool)
}
