// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cpuselect implements the selector grammar that resolves a
// textual CPU selection expression into an ordered list of hardware
// thread IDs against a built affinity.Domains set.
package cpuselect

import (
	"math"

	"github.com/AlexisC0de/likwid/hwtopo"
)

// sortTransform reorders in so that SMT siblings (every tpc-th entry)
// are grouped to the end of the result: for off in 0..tpc, for i in
// 0..ceil(len(in)/tpc), emit in[i*tpc+off]. Indices past len(in) are
// skipped rather than panicking, since a domain's processor count need
// not be an exact multiple of tpc.
func sortTransform(in []hwtopo.ThreadID, tpc int) []hwtopo.ThreadID {
	if tpc <= 0 || len(in) == 0 {
		out := make([]hwtopo.ThreadID, len(in))
		copy(out, in)
		return out
	}

	out := make([]hwtopo.ThreadID, 0, len(in))
	inner := int(math.Ceil(float64(len(in)) / float64(tpc)))
	for off := 0; off < tpc; off++ {
		for i := 0; i < inner; i++ {
			idx := i*tpc + off
			if idx >= len(in) {
				continue
			}
			out = append(out, in[idx])
			if len(out) == len(in) {
				return out
			}
		}
	}
	return out
}
