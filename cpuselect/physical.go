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
)

// physical implements Physical mode: "[<domain>:]<indexlist>", defaulting
// to domain N when no prefix is given. Each parsed index is a literal
// HWT ID; members of the domain's processor list are appended in the
// user's order, non-members are skipped with a stderr diagnostic.
func physical(seg string, domains *affinity.Domains) []hwtopo.ThreadID {
	tag, indexlist := "N", seg
	if i := strings.IndexByte(seg, ':'); i >= 0 {
		tag, indexlist = seg[:i], seg[i+1:]
	}

	dom, ok := domains.Domain(tag)
	if !ok {
		cclog.Errorf("cpuselect: cannot find domain %s", tag)
		return nil
	}
	member := make(map[hwtopo.ThreadID]bool, len(dom.Processors))
	for _, p := range dom.Processors {
		member[p] = true
	}

	var out []hwtopo.ThreadID
	for _, it := range parseIndexList(indexlist) {
		for _, idx := range it.values() {
			id := hwtopo.ThreadID(idx)
			if !member[id] {
				cclog.Errorf("cpuselect: CPU %d not in domain %s", idx, tag)
				continue
			}
			out = append(out, id)
		}
	}
	return out
}
