// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package affinity

import (
	"fmt"
	"sync"

	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/hwtopo"
)

// Source produces the topology and NUMA description a Facade builds its
// domains from. Implementations are free to discover hardware live, load
// a recorded snapshot, or hand back a synthetic machine for tests.
type Source interface {
	Topology() (*hwtopo.Topology, error)
	NumaInfo() (*hwtopo.NumaInfo, error)
}

// Facade owns one lazily-built Domains value. It replaces the
// process-wide singleton and init/finalize flag of the construction this
// is grounded on with an explicitly-owned value: callers hold their own
// Facade, build it once on first use, and tear it down when done. After
// Close, the next call to Domains rebuilds from scratch. Its methods are
// safe for concurrent use: an internal mutex serializes build, query and
// close.
type Facade struct {
	source     Source
	cacheDepth int

	mu      sync.Mutex
	domains *Domains
}

// NewFacade returns a Facade that builds its domains from src on first
// use, treating cache depth 3 as the last level.
func NewFacade(src Source) *Facade {
	return NewFacadeWithCacheDepth(src, 3)
}

// NewFacadeWithCacheDepth is NewFacade with an operator-configured cache
// depth standing in for "last level" (see the config package).
func NewFacadeWithCacheDepth(src Source, cacheDepth int) *Facade {
	if cacheDepth <= 0 {
		cacheDepth = 3
	}
	return &Facade{source: src, cacheDepth: cacheDepth}
}

// Domains returns the built domain set, constructing it from the
// Facade's Source on first call and caching it afterward. A build
// failure is reported as an error and leaves the Facade uninitialized,
// so a later call retries rather than wedging on a partial build.
func (f *Facade) Domains() (*Domains, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.domains != nil {
		return f.domains, nil
	}

	topo, err := f.source.Topology()
	if err != nil {
		domainBuildFailures.Inc()
		cclog.Errorf("affinity: failed to obtain topology: %v", err)
		return nil, fmt.Errorf("affinity: obtaining topology: %w", err)
	}
	if topo == nil || topo.NumSockets == 0 {
		domainBuildFailures.Inc()
		err := fmt.Errorf("affinity: topology reports zero sockets")
		cclog.Errorf("%v", err)
		return nil, err
	}

	numa, err := f.source.NumaInfo()
	if err != nil {
		domainBuildFailures.Inc()
		cclog.Errorf("affinity: failed to obtain NUMA info: %v", err)
		return nil, fmt.Errorf("affinity: obtaining NUMA info: %w", err)
	}

	f.domains = BuildWithCacheDepth(topo, numa, f.cacheDepth)
	domainRebuilds.Inc()
	return f.domains, nil
}

// Initialized reports whether Domains has already built and cached a
// domain set.
func (f *Facade) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.domains != nil
}

// Close releases the cached domain set. The next call to Domains
// rebuilds it from the Source, matching the idempotent-init,
// explicit-finalize lifecycle this is grounded on.
func (f *Facade) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.domains = nil
}
