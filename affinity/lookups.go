// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package affinity builds the named affinity domains (Node, Socket, Cache,
// Memory) from a read-only hardware topology and NUMA description, and the
// flat lookups that map a hardware thread to its owning core, socket, NUMA
// node and shared last-level cache.
package affinity

import "github.com/AlexisC0de/likwid/hwtopo"

// Lookups holds four flat, HWT-ID-indexed arrays mapping each hardware
// thread to its owning core, socket, NUMA node, and shared last-level
// cache. Entries for hardware threads outside the topology's range are
// -1. Built once by buildLookups and owned by a Domains value.
type Lookups struct {
	thread2core     []int
	thread2socket   []int
	thread2numa     []int
	thread2sharedl3 []int
}

func filledWith(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// buildLookups walks the topology tree and the NUMA node list once,
// populating all four lookups. It is a pure function of its inputs, so
// idempotence falls out of calling it at most once per Domains build
// rather than needing internal guards. cacheDepth selects which cache
// level counts as "last level" when computing the shared-LLC lookup.
func buildLookups(topo *hwtopo.Topology, numa *hwtopo.NumaInfo, cacheDepth int) *Lookups {
	n := topo.NumHWThreads
	l := &Lookups{
		thread2core:     filledWith(n, -1),
		thread2socket:   filledWith(n, -1),
		thread2numa:     filledWith(n, -1),
		thread2sharedl3: filledWith(n, -1),
	}

	coresPerLLC := 0
	if ll, ok := topo.CacheLevelAt(cacheDepth); ok && topo.NumThreadsPerCore > 0 {
		coresPerLLC = ll.ThreadsPerCache / topo.NumThreadsPerCore
	}
	cachesPerSocket := 0
	if coresPerLLC > 0 {
		cachesPerSocket = topo.NumCoresPerSocket / coresPerLLC
	}

	for _, socket := range topo.Sockets {
		for coreIdx, core := range socket.Cores {
			llcGlobal := -1
			if coresPerLLC > 0 {
				llcGlobal = socket.ID*cachesPerSocket + coreIdx/coresPerLLC
			}
			for _, th := range core.Threads {
				id := int(th.ID)
				if id < 0 || id >= n {
					continue
				}
				l.thread2core[id] = core.ID
				l.thread2socket[id] = socket.ID
				if llcGlobal >= 0 {
					l.thread2sharedl3[id] = llcGlobal
				}
			}
		}
	}

	if numa != nil {
		for nodeIdx, node := range numa.Nodes {
			for _, proc := range node.Processors {
				id := int(proc)
				if id < 0 || id >= n {
					continue
				}
				l.thread2numa[id] = nodeIdx
			}
		}
	}

	return l
}

// ThreadToCore returns the core ID owning HWT h, or -1 if h is out of
// range or unmapped.
func (l *Lookups) ThreadToCore(h hwtopo.ThreadID) int { return l.lookup(l.thread2core, h) }

// ThreadToSocket returns the socket ID owning HWT h, or -1.
func (l *Lookups) ThreadToSocket(h hwtopo.ThreadID) int { return l.lookup(l.thread2socket, h) }

// ThreadToNuma returns the NUMA node ID owning HWT h, or -1.
func (l *Lookups) ThreadToNuma(h hwtopo.ThreadID) int { return l.lookup(l.thread2numa, h) }

// ThreadToSharedLLC returns the index of the last-level cache shared by
// HWT h, or -1 if none is defined for this machine or h is unmapped.
func (l *Lookups) ThreadToSharedLLC(h hwtopo.ThreadID) int { return l.lookup(l.thread2sharedl3, h) }

func (l *Lookups) lookup(table []int, h hwtopo.ThreadID) int {
	i := int(h)
	if i < 0 || i >= len(table) {
		return -1
	}
	return table[i]
}
