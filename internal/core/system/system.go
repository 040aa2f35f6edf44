package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: collect external requests
	PhasePreUpdate               // 1: release components held past their lifetime
	PhaseUpdate                  // 2: simulation work, acquires components
	PhasePostUpdate              // 3: bookkeeping that reads live components
	PhaseCleanup                 // 4: reclaim returned components
	PhaseReport                  // 5: stats and logging
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "cleanup", "report"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
