// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"strconv"
	"strings"

	"github.com/AlexisC0de/likwid/affinity"
	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/hwtopo"
)

// expression implements Expression mode: "E:<domain>:<count>[:<chunk>:<stride>]".
// It walks the domain's processor list emitting chunk consecutive HWTs,
// then advances by stride, wrapping the offset back to 0 once it passes
// the domain's size. Emission stops once count HWTs have been produced.
// The original's two equivalent stop conditions (insert == count,
// insert == length) collapse into a single len(out) == count check;
// truncation to the caller's overall max happens once, centrally, in
// Parse.
func expression(seg string, domains *affinity.Domains) []hwtopo.ThreadID {
	fields := strings.Split(seg, ":")
	if len(fields) != 3 && len(fields) != 5 {
		cclog.Errorf("cpuselect: invalid expression %q, want E:<domain>:<count>[:<chunk>:<stride>]", seg)
		return nil
	}

	tag := fields[1]
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		cclog.Errorf("cpuselect: invalid count in expression %q: %v", seg, err)
		return nil
	}
	chunk, stride := 1, 1
	if len(fields) == 5 {
		chunk, err = strconv.Atoi(fields[3])
		if err != nil {
			cclog.Errorf("cpuselect: invalid chunk in expression %q: %v", seg, err)
			return nil
		}
		stride, err = strconv.Atoi(fields[4])
		if err != nil {
			cclog.Errorf("cpuselect: invalid stride in expression %q: %v", seg, err)
			return nil
		}
	}
	if count <= 0 {
		return nil
	}

	dom, ok := domains.Domain(tag)
	if !ok {
		cclog.Errorf("cpuselect: cannot find domain %s", tag)
		return nil
	}

	out := make([]hwtopo.ThreadID, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		for j := 0; j < chunk && offset+j < len(dom.Processors); j++ {
			out = append(out, dom.Processors[offset+j])
			if len(out) == count {
				return out
			}
		}
		offset += stride
		if offset >= len(dom.Processors) {
			offset = 0
		}
	}
	return out
}
