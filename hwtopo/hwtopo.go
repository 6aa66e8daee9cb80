// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hwtopo holds the read-only data model that the affinity domain
// builder and selector grammar consume: a hardware parallelism tree
// (sockets -> cores -> hardware threads) and a NUMA description. Both are
// produced elsewhere (live discovery, a JSON snapshot, or a synthetic
// machine for tests) and never mutated once built.
package hwtopo

// ThreadID identifies a hardware thread the way the OS enumerates it.
// Stable for the process lifetime, never negative for a present thread.
type ThreadID int

// Thread is a single hardware thread (a leaf of the topology tree).
type Thread struct {
	ID       ThreadID `json:"id"`
	InCPUSet bool     `json:"in_cpu_set"`
}

// Core groups the hardware threads (SMT siblings) that share an execution
// core. ID is a global, socket-independent core index.
type Core struct {
	ID      int      `json:"id"`
	Threads []Thread `json:"threads"`
}

// Socket groups the cores belonging to one physical package.
type Socket struct {
	ID    int    `json:"id"`
	Cores []Core `json:"cores"`
}

// CacheLevel describes one level of the cache hierarchy. Only the entry
// at the depth the Domain Builder treats as last level (3 by default,
// configurable) carries meaning for domain construction; other depths
// are informational.
type CacheLevel struct {
	Depth           int `json:"depth"`
	ThreadsPerCache int `json:"threads_per_cache"`
}

// Topology is the external, read-only hardware description consumed by
// the Domain Builder. It is constructed once by a discovery backend (see
// the ccTopology package for the hwloc-backed one, or NewSynthetic below
// for tests) and never mutated afterwards.
type Topology struct {
	NumHWThreads      int          `json:"num_hw_threads"`
	ActiveHWThreads   int          `json:"active_hw_threads"`
	NumSockets        int          `json:"num_sockets"`
	NumCoresPerSocket int          `json:"num_cores_per_socket"`
	NumThreadsPerCore int          `json:"num_threads_per_core"`
	CacheLevels       []CacheLevel `json:"cache_levels"`
	Sockets           []Socket     `json:"sockets"`
}

// Socket returns the root's i-th socket child, matching "descend to child
// socket_id of the root" in the fill traversal. A missing child is
// reported via ok=false so callers can stop gracefully instead of
// failing.
func (t *Topology) Socket(i int) (Socket, bool) {
	if i < 0 || i >= len(t.Sockets) {
		return Socket{}, false
	}
	return t.Sockets[i], true
}

// Core returns the i-th core of a socket.
func (s Socket) Core(i int) (Core, bool) {
	if i < 0 || i >= len(s.Cores) {
		return Core{}, false
	}
	return s.Cores[i], true
}

// LastLevelCache returns the cache level entry at depth 3, the
// convention this module defaults to for "last level".
func (t *Topology) LastLevelCache() (CacheLevel, bool) {
	return t.CacheLevelAt(3)
}

// CacheLevelAt returns the cache level entry at the given depth, if the
// topology reports one. A configured depth other than 3 lets an
// operator point the Domain Builder at a different cache level (for
// machines where depth 3 isn't the shared last level).
func (t *Topology) CacheLevelAt(depth int) (CacheLevel, bool) {
	for _, cl := range t.CacheLevels {
		if cl.Depth == depth {
			return cl, true
		}
	}
	return CacheLevel{}, false
}

// NumaNode is one NUMA memory node and the hardware threads with uniform
// access cost to it.
type NumaNode struct {
	Processors []ThreadID `json:"processors"`
}

// NumProcessors is the number of hardware threads attached to this node.
func (n NumaNode) NumProcessors() int {
	return len(n.Processors)
}

// NumaInfo is the external, read-only NUMA description consumed by the
// Domain Builder alongside Topology.
type NumaInfo struct {
	Nodes []NumaNode `json:"nodes"`
}

// NewSynthetic builds a Topology by hand for tests and reproducible
// demos: numSockets sockets, each with coresPerSocket cores of
// threadsPerCore hardware threads, numbered socket-major/core-major/
// thread-minor the way a uniform SMP machine is enumerated by the OS.
// excluded lists thread IDs to mark out of the active cpuset.
func NewSynthetic(numSockets, coresPerSocket, threadsPerCore int, coresPerLLC int, excluded ...ThreadID) *Topology {
	excludedSet := make(map[ThreadID]bool, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = true
	}

	topo := &Topology{
		NumSockets:        numSockets,
		NumCoresPerSocket: coresPerSocket,
		NumThreadsPerCore: threadsPerCore,
	}
	threadsPerCache := coresPerLLC * threadsPerCore
	if threadsPerCache > 0 {
		topo.CacheLevels = []CacheLevel{{Depth: 3, ThreadsPerCache: threadsPerCache}}
	}

	nextThread := 0
	nextCore := 0
	for s := 0; s < numSockets; s++ {
		socket := Socket{ID: s}
		for c := 0; c < coresPerSocket; c++ {
			core := Core{ID: nextCore}
			nextCore++
			for t := 0; t < threadsPerCore; t++ {
				id := ThreadID(nextThread)
				nextThread++
				core.Threads = append(core.Threads, Thread{ID: id, InCPUSet: !excludedSet[id]})
				topo.NumHWThreads++
				if !excludedSet[id] {
					topo.ActiveHWThreads++
				}
			}
			socket.Cores = append(socket.Cores, core)
		}
		topo.Sockets = append(topo.Sockets, socket)
	}
	return topo
}
