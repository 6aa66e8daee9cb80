// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package affinity

import "github.com/AlexisC0de/likwid/hwtopo"

// fillNextEntries walks the topology tree in socket/core/thread order
// starting at socket socketID, skips the first coreOffset cores of that
// socket, then emits in-cpuset hardware thread IDs until either coreSpan
// cores have been visited or max entries have been produced. It is the
// shared traversal behind every domain's processor list, and is tolerant
// of a missing socket or a short core span: it returns whatever it
// managed to collect rather than failing, mirroring the original
// treeFillNextEntries, which never aborts the caller's domain loop.
func fillNextEntries(topo *hwtopo.Topology, socketID, coreOffset, coreSpan, max int) []hwtopo.ThreadID {
	out := make([]hwtopo.ThreadID, 0, max)

	socket, ok := topo.Socket(socketID)
	if !ok {
		return out
	}

	coresVisited := 0
	for coreIdx := coreOffset; coreIdx < len(socket.Cores) && coresVisited < coreSpan; coreIdx++ {
		core := socket.Cores[coreIdx]
		for _, th := range core.Threads {
			if !th.InCPUSet {
				continue
			}
			out = append(out, th.ID)
			if len(out) == max {
				return out
			}
		}
		coresVisited++
	}
	return out
}
