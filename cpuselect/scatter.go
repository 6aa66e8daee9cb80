// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"strings"

	"github.com/AlexisC0de/likwid/affinity"
	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/hwtopo"
	"github.com/AlexisC0de/likwid/util"
)

// tagAlphabet is the set of domain tag prefixes the selector grammar
// recognizes (spec.md §6 "Tag alphabet").
var tagAlphabet = []byte{'N', 'S', 'C', 'M'}

// scatter implements Scatter mode: "<X>:scatter". Every domain whose tag
// starts with X and has at least one processor is sort-transformed, then
// the results are interleaved round-robin (index 0 of every domain,
// then index 1 of every domain, and so on) to balance load across the
// matching resources while still spreading SMT siblings to the end of
// each domain's contribution.
func scatter(seg string, domains *affinity.Domains, tpc int) []hwtopo.ThreadID {
	prefix := seg
	if i := strings.IndexByte(seg, ':'); i >= 0 {
		prefix = seg[:i]
	}
	if prefix == "" {
		return nil
	}
	x := prefix[0]
	if !util.Contains(tagAlphabet, x) {
		cclog.Errorf("cpuselect: invalid domain tag prefix %q in scatter expression %q", string(x), seg)
		return nil
	}

	var lists [][]hwtopo.ThreadID
	maxProcs := 0
	for _, dom := range domains.All() {
		if len(dom.Tag) == 0 || dom.Tag[0] != x || len(dom.Processors) == 0 {
			continue
		}
		lists = append(lists, sortTransform(dom.Processors, tpc))
		if len(dom.Processors) > maxProcs {
			maxProcs = len(dom.Processors)
		}
	}

	var out []hwtopo.ThreadID
	for off := 0; off < maxProcs; off++ {
		for _, l := range lists {
			if off >= len(l) {
				continue
			}
			out = append(out, l[off])
		}
	}
	return out
}
