// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package affinity

import (
	"fmt"
	"strings"

	"github.com/AlexisC0de/likwid/hwtopo"
)

// Domain is one named affinity domain: a tag ("N", "Sx", "Cx", "Mx") and
// the ordered list of hardware threads it spans. NumProcessors is the
// domain's declared size and can differ from len(Processors): the
// Memory domain offset-overrun case (see Domains.buildMemoryDomains)
// leaves a domain's declared size intact while its processor list stays
// empty, exactly as the construction this is grounded on does.
type Domain struct {
	Tag           string
	NumProcessors int
	NumCores      int
	Processors    []hwtopo.ThreadID
}

// Domains is the full, named set of affinity domains built from a
// topology and NUMA description, plus the flat thread lookups built
// alongside them. Immutable once returned by Build.
type Domains struct {
	Lookups *Lookups
	domains []Domain
	byTag   map[string]int

	NumSocketDomains    int
	NumCacheDomains     int
	NumNumaDomains      int
	ProcessorsPerSocket int
	ProcessorsPerCache  int
}

// Build constructs the Node, Socket, Cache and Memory domains for topo
// and numa, treating cache depth 3 as the last level. See
// BuildWithCacheDepth to override that.
func Build(topo *hwtopo.Topology, numa *hwtopo.NumaInfo) *Domains {
	return BuildWithCacheDepth(topo, numa, 3)
}

// BuildWithCacheDepth constructs the Node, Socket, Cache and Memory
// domains for topo and numa: one Node domain, one Socket domain per
// socket, one Cache domain per last-level cache at cacheDepth, and one
// Memory domain per NUMA node (collapsed into a single domain when NUMA
// information is too coarse to subdivide per socket).
func BuildWithCacheDepth(topo *hwtopo.Topology, numa *hwtopo.NumaInfo, cacheDepth int) *Domains {
	d := &Domains{
		Lookups:             buildLookups(topo, numa, cacheDepth),
		NumSocketDomains:    topo.NumSockets,
		ProcessorsPerSocket: topo.NumCoresPerSocket * topo.NumThreadsPerCore,
	}

	coresPerCache := 0
	if ll, ok := topo.CacheLevelAt(cacheDepth); ok && topo.NumThreadsPerCore > 0 {
		coresPerCache = ll.ThreadsPerCache / topo.NumThreadsPerCore
	}
	if coresPerCache > 0 {
		d.ProcessorsPerCache = coresPerCache * topo.NumThreadsPerCore
		d.NumCacheDomains = topo.NumSockets * (topo.NumCoresPerSocket / coresPerCache)
	}
	if numa != nil {
		d.NumNumaDomains = len(numa.Nodes)
	}

	d.domains = append(d.domains, d.buildNodeDomain(topo))
	d.domains = append(d.domains, d.buildSocketDomains(topo)...)
	d.domains = append(d.domains, d.buildCacheDomains(topo, coresPerCache)...)
	d.domains = append(d.domains, d.buildMemoryDomains(topo, numa)...)

	d.byTag = make(map[string]int, len(d.domains))
	for i, dom := range d.domains {
		d.byTag[dom.Tag] = i
	}
	return d
}

// buildNodeDomain builds the "N" domain. When there is more than one
// socket, the declared NumProcessors is left at the topology's active
// thread count even if the concatenated per-socket traversal falls
// short of it; a single-socket machine instead adopts whatever the
// traversal actually returns. Both branches mirror affinity_init.
func (d *Domains) buildNodeDomain(topo *hwtopo.Topology) Domain {
	dom := Domain{
		Tag:           "N",
		NumProcessors: topo.ActiveHWThreads,
		NumCores:      topo.NumSockets * topo.NumCoresPerSocket,
	}

	if topo.NumSockets > 1 {
		for s := 0; s < topo.NumSockets; s++ {
			dom.Processors = append(dom.Processors,
				fillNextEntries(topo, s, 0, topo.NumCoresPerSocket, d.ProcessorsPerSocket)...)
		}
	} else {
		dom.Processors = fillNextEntries(topo, 0, 0, dom.NumCores, dom.NumProcessors)
		dom.NumProcessors = len(dom.Processors)
	}
	return dom
}

// buildSocketDomains builds one "Sx" domain per socket. Unlike the Node
// domain, each socket's declared NumProcessors is corrected down to
// whatever the traversal actually produced.
func (d *Domains) buildSocketDomains(topo *hwtopo.Topology) []Domain {
	out := make([]Domain, 0, topo.NumSockets)
	for i := 0; i < topo.NumSockets; i++ {
		procs := fillNextEntries(topo, i, 0, topo.NumCoresPerSocket, d.ProcessorsPerSocket)
		out = append(out, Domain{
			Tag:           fmt.Sprintf("S%d", i),
			NumProcessors: len(procs),
			NumCores:      topo.NumCoresPerSocket,
			Processors:    procs,
		})
	}
	return out
}

// buildCacheDomains builds one "Cx" domain per last-level cache,
// assuming uniform cache layout across sockets. Returns nil when the
// topology carries no usable last-level cache size.
func (d *Domains) buildCacheDomains(topo *hwtopo.Topology, coresPerCache int) []Domain {
	if coresPerCache <= 0 || d.NumCacheDomains == 0 {
		return nil
	}
	cachesPerSocket := d.NumCacheDomains / topo.NumSockets
	out := make([]Domain, 0, d.NumCacheDomains)

	sub := 0
	for s := 0; s < topo.NumSockets; s++ {
		offset := 0
		for j := 0; j < cachesPerSocket; j++ {
			procs := fillNextEntries(topo, s, offset, coresPerCache, d.ProcessorsPerCache)
			out = append(out, Domain{
				Tag:           fmt.Sprintf("C%d", sub),
				NumProcessors: len(procs),
				NumCores:      coresPerCache,
				Processors:    procs,
			})
			if len(procs) < coresPerCache {
				offset += len(procs)
			} else {
				offset += coresPerCache
			}
			sub++
		}
	}
	return out
}

// buildMemoryDomains builds the "Mx" domains. When NUMA information is
// at least as fine-grained as the socket count, one Memory domain is
// built per NUMA node, walked within its owning socket. A domain whose
// starting core offset has already reached its socket's core count
// keeps the NUMA-reported NumProcessors but is left with an empty
// processor list: the traversal that would fill it is never attempted,
// matching the "continue" in the original affinity_init this is
// grounded on.
//
// Otherwise -- too few NUMA nodes to give each socket its own domain --
// a single Memory domain spans every socket.
func (d *Domains) buildMemoryDomains(topo *hwtopo.Topology, numa *hwtopo.NumaInfo) []Domain {
	if numa != nil && d.NumNumaDomains >= d.NumSocketDomains && d.NumNumaDomains > 1 {
		perSocket := ceilDiv(d.NumNumaDomains, d.NumSocketDomains)
		out := make([]Domain, 0, d.NumNumaDomains)
		sub := 0
		for s := 0; s < topo.NumSockets; s++ {
			offset := 0
			for j := 0; j < perSocket && sub < len(numa.Nodes); j++ {
				node := numa.Nodes[sub]
				numProcessors := node.NumProcessors()
				numCores := 0
				if topo.NumThreadsPerCore > 0 {
					numCores = numProcessors / topo.NumThreadsPerCore
				}
				dom := Domain{
					Tag:           fmt.Sprintf("M%d", sub),
					NumProcessors: numProcessors,
					NumCores:      numCores,
				}
				if offset >= topo.NumCoresPerSocket {
					out = append(out, dom)
					sub++
					continue
				}
				procs := fillNextEntries(topo, s, offset, numCores, numProcessors)
				dom.NumProcessors = len(procs)
				dom.Processors = procs
				out = append(out, dom)
				offset += numCores
				sub++
			}
		}
		return out
	}

	numaThreads := d.ProcessorsPerSocket * topo.NumSockets
	dom := Domain{
		Tag:      "M0",
		NumCores: numaThreads / max(topo.NumThreadsPerCore, 1),
	}
	total := 0
	for s := 0; s < topo.NumSockets; s++ {
		procs := fillNextEntries(topo, s, 0, dom.NumCores, d.ProcessorsPerSocket)
		dom.Processors = append(dom.Processors, procs...)
		total += len(procs)
	}
	dom.NumProcessors = total
	return []Domain{dom}
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Domain returns the domain with the given tag, grounded on
// affinity_getDomain.
func (d *Domains) Domain(tag string) (Domain, bool) {
	i, ok := d.byTag[tag]
	if !ok {
		return Domain{}, false
	}
	return d.domains[i], true
}

// All returns every domain, in construction order: N, then Sx, then Cx,
// then Mx.
func (d *Domains) All() []Domain {
	return d.domains
}

// String renders every domain's tag and processor list, grounded on
// affinity_printDomains.
func (d *Domains) String() string {
	var b strings.Builder
	for _, dom := range d.domains {
		fmt.Fprintf(&b, "Tag %s:", dom.Tag)
		for _, p := range dom.Processors {
			fmt.Fprintf(&b, " %d", p)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
