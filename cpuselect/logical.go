// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"os"
	"strings"

	"github.com/AlexisC0de/likwid/affinity"
	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/hwtopo"
)

// logical implements Logical mode: "L:<domain>:<indexlist>". It builds
// the sort-transformed processor list for the domain, then walks the
// indexlist's items in textual order, appending sorted[idx % ret] for
// each index (ret == len(sorted)). If the cumulative emission count
// reaches ret before the required count R (the summed item widths) has
// been emitted, the rest of the current pass is dropped and the items
// are replayed from the start (the "logical_redo" loop in the
// implementation this is grounded on) until R entries exist. R can
// exceed ret, the domain's true size, which is the documented
// over-selection case: a warning is printed unless LIKWID_SILENT is
// set, and the modular wrap produces intentional duplicates.
func logical(seg string, domains *affinity.Domains, tpc int) []hwtopo.ThreadID {
	fields := strings.SplitN(seg, ":", 3)
	if len(fields) != 3 {
		cclog.Errorf("cpuselect: invalid expression %q, want L:<domain>:<indexlist>", seg)
		return nil
	}
	tag, indexlist := fields[1], fields[2]

	dom, ok := domains.Domain(tag)
	if !ok {
		cclog.Errorf("cpuselect: cannot find domain %s", tag)
		return nil
	}

	sorted := sortTransform(dom.Processors, tpc)
	ret := len(sorted)
	if ret == 0 {
		return nil
	}

	items := parseIndexList(indexlist)
	required := 0
	for _, it := range items {
		required += it.width()
	}
	if required == 0 {
		return nil
	}

	if required > ret && os.Getenv("LIKWID_SILENT") == "" {
		cclog.Warnf("cpuselect: domain %s has only %d hardware threads, but selection evaluates to %d threads", tag, ret, required)
		cclog.Warnf("cpuselect: this results in multiple threads on the same hardware thread")
	}

	out := make([]hwtopo.ThreadID, 0, required)
passes:
	for {
		for _, it := range items {
			for _, idx := range it.values() {
				out = append(out, sorted[((idx%ret)+ret)%ret])
				switch {
				case len(out) == required:
					return out
				case len(out) == ret:
					// Cumulative emission count hit exactly the domain
					// size mid-item: the remainder of this item is
					// dropped for this pass and the items list restarts
					// from the top, matching logical_redo. This can
					// happen at most once, since the count only grows
					// from here on.
					continue passes
				}
			}
		}
		// Every item was consumed in full without ever hitting ret
		// exactly; required must already be satisfied.
		return out
	}
}
