// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package scheduler implements a cooperative round-robin task runner: every
// registered task is invoked once per round, forever. Preemptive interrupt
// handlers (the SGPIO data-shuttling ISR being the one latency-critical
// example in this library) sit above this loop, not inside it.
package scheduler

// Task is a unit of cooperative work, run to completion (never blocking)
// once per scheduler round.
type Task func()

var tasks []Task

// Register adds t to the set of tasks run every round. There is no
// unregister: tasks are expected to live for the lifetime of the program,
// matching the platform's own link-time task list.
func Register(t Task) {
	tasks = append(tasks, t)
}

// RunOnce executes every registered task exactly once, in registration
// order. Useful on its own for tests, which cannot call Run.
func RunOnce() {
	for _, t := range tasks {
		t()
	}
}

// Run executes RunOnce forever. It never returns.
func Run() {
	for {
		RunOnce()
	}
}
