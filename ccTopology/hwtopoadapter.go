// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ccTopology

import (
	"fmt"
	"sort"

	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/hwtopo"
)

// Source adapts a live or snapshot-loaded ccTopology.Topology into the
// hwtopo.Topology/NumaInfo pair the affinity Domain Builder consumes,
// implementing affinity.Source without either package importing the
// other's cgo dependency.
type Source struct {
	topo Topology
}

// NewSource wraps an already-discovered topology. Use LocalTopology or
// RemoteTopology to obtain one.
func NewSource(topo Topology) *Source {
	return &Source{topo: topo}
}

// Topology converts the hwloc object tree into the flat socket/core/
// thread shape the Domain Builder expects. hwloc exposes per-socket and
// per-NUMA-node hardware thread membership directly but not a per-core
// grouping through the public interface, so cores are reconstructed by
// chunking each socket's hardware threads into contiguous groups of
// CpuInfo().SMTWidth, matching the uniform-layout assumption the rest of
// this module makes for cache and memory domains.
func (s *Source) Topology() (*hwtopo.Topology, error) {
	info := s.topo.CpuInfo()
	if info.SMTWidth <= 0 {
		return nil, fmt.Errorf("ccTopology: reported SMT width is %d", info.SMTWidth)
	}

	sockets := s.topo.GetSockets()
	sort.Slice(sockets, func(i, j int) bool { return sockets[i] < sockets[j] })

	out := &hwtopo.Topology{
		NumSockets:        len(sockets),
		NumThreadsPerCore: info.SMTWidth,
	}

	nextCore := 0
	for _, sid := range sockets {
		threads := s.topo.GetHwthreadsOfSocket(sid)
		sort.Slice(threads, func(i, j int) bool { return threads[i] < threads[j] })

		socket := hwtopo.Socket{ID: int(sid)}
		for i := 0; i < len(threads); i += info.SMTWidth {
			end := i + info.SMTWidth
			if end > len(threads) {
				end = len(threads)
			}
			core := hwtopo.Core{ID: nextCore}
			nextCore++
			for _, tid := range threads[i:end] {
				core.Threads = append(core.Threads, hwtopo.Thread{ID: hwtopo.ThreadID(tid), InCPUSet: true})
				out.NumHWThreads++
				out.ActiveHWThreads++
			}
			socket.Cores = append(socket.Cores, core)
		}
		if len(socket.Cores) > 0 && out.NumCoresPerSocket == 0 {
			out.NumCoresPerSocket = len(socket.Cores)
		}
		out.Sockets = append(out.Sockets, socket)
	}

	if coresPerLLC := s.coresPerLastLevelCache(out); coresPerLLC > 0 {
		out.CacheLevels = []hwtopo.CacheLevel{{
			Depth:           3,
			ThreadsPerCache: coresPerLLC * info.SMTWidth,
		}}
	} else {
		cclog.Warnf("ccTopology: could not determine last-level cache size, domain builder will build no cache domains")
	}

	return out, nil
}

// coresPerLastLevelCache derives the LLC fan-out from the core count per
// socket divided across the dies reported for that socket: a die shares
// one last-level cache on every topology hwloc models this way.
func (s *Source) coresPerLastLevelCache(topo *hwtopo.Topology) int {
	dies := len(s.topo.GetDies())
	if dies == 0 || len(topo.Sockets) == 0 {
		return topo.NumCoresPerSocket
	}
	diesPerSocket := dies / len(topo.Sockets)
	if diesPerSocket <= 0 {
		return topo.NumCoresPerSocket
	}
	coresPerDie := topo.NumCoresPerSocket / diesPerSocket
	if coresPerDie <= 0 {
		return topo.NumCoresPerSocket
	}
	return coresPerDie
}

// NumaInfo converts the hwloc NUMA node list into hwtopo's flat
// processor-list form.
func (s *Source) NumaInfo() (*hwtopo.NumaInfo, error) {
	nodes := s.topo.GetMemoryDomains()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	out := &hwtopo.NumaInfo{}
	for _, nid := range nodes {
		threads := s.topo.GetHwthreadsOfMemoryDomain(nid)
		sort.Slice(threads, func(i, j int) bool { return threads[i] < threads[j] })

		node := hwtopo.NumaNode{}
		for _, tid := range threads {
			node.Processors = append(node.Processors, hwtopo.ThreadID(tid))
		}
		out.Nodes = append(out.Nodes, node)
	}
	return out, nil
}
