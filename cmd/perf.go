/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"sort"

	perf "github.com/hodgesds/perf-utils"
)

// perfCounters wraps a hardware performance-counter group for the
// running process, used by run's --perfstat flag. Hardware counters
// are unavailable in many sandboxed or virtualised environments (no
// /proc/sys/kernel/perf_event_paranoid access, no PMU passthrough), so
// every method here degrades to a printed warning instead of aborting
// the run.
type perfCounters struct {
	profiler perf.GroupProfiler
}

func startPerfCounters() *perfCounters {
	profiler, err := perf.NewGroupProfiler(os.Getpid(), -1, 0,
		"cycles", "instructions", "cache-misses", "branch-misses")
	if err != nil {
		fmt.Printf("perfstat: hardware counters unavailable: %v\n", err)
		return nil
	}
	if err := profiler.Start(); err != nil {
		fmt.Printf("perfstat: failed to start counters: %v\n", err)
		return nil
	}
	return &perfCounters{profiler: profiler}
}

func (p *perfCounters) report() {
	if p == nil {
		return
	}
	defer p.profiler.Stop()

	counts, err := p.profiler.Profile(nil)
	if err != nil {
		fmt.Printf("perfstat: failed to read counters: %v\n", err)
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("performance counters:")
	for _, name := range names {
		fmt.Printf("  %-16s %d\n", name, counts[name])
	}
}
