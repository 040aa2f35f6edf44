package main

import (
	"fmt"
	"strings"

	"github.com/coremud/engine/internal/core/ecs"
)

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m          CoreMUD pool simulator           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// printPool prints one line per pool: a usage bar followed by the counters.
func printPool(st ecs.PoolStats) {
	const width = 20
	used := 0
	if st.Capacity > 0 {
		used = st.InUse * width / st.Capacity
	}
	bar := strings.Repeat("█", used) + strings.Repeat("░", width-used)
	fmt.Printf("  %-8s \033[36m%s\033[0m cap \033[32m%d\033[0m  free %d  in use %d  grows %d\n",
		st.Name, bar, st.Capacity, st.Free, st.InUse, st.Grows)
}
