// Package profile provides optional runtime profiling for the calc
// application.
//
// This package integrates [github.com/pkg/profile] with conditional
// compilation. Profiling must be enabled at build time using the "pprof"
// build tag; otherwise all operations are no-ops and [Modes] is empty.
//
// # Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (e.g., cpu.pprof, mem.pprof).
//
// The calc command exposes profiling through its --pprof-mode and
// --pprof-dir flags when built with the tag:
//
//	go build -tags pprof ./
//	calc --pprof-mode cpu 'x = 3; x * 4'
//	go tool pprof -http=: "$XDG_CACHE_HOME/calc/pprof/cpu.pprof"
//
// Importing this package with the tag also registers the [net/http/pprof]
// handlers on [net/http.DefaultServeMux].
package profile
