// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"strings"

	"github.com/AlexisC0de/likwid/affinity"
	"github.com/AlexisC0de/likwid/hwtopo"
	"github.com/AlexisC0de/likwid/util"
	"github.com/prometheus/client_golang/prometheus"
)

var segmentParses = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "likwid",
	Subsystem: "cpuselect",
	Name:      "segment_parses_total",
	Help:      "Number of selector segments parsed, by resolved mode.",
}, []string{"mode"})

func init() {
	prometheus.MustRegister(segmentParses)
}

// Parse resolves a selector expression against domains into an ordered
// list of hardware thread IDs. tpc is the machine's threads-per-core,
// used by the sort transformation; restrictedCPUSet marks a process
// confined to a subset of the machine's hardware threads, under which a
// segment that would otherwise resolve in Physical mode is resolved in
// Logical mode against the Node domain, as "L:N:<segment>". max caps
// the total number of entries returned across every segment; max == 0
// returns nil and a negative max means unlimited.
func Parse(selector string, domains *affinity.Domains, tpc int, restrictedCPUSet bool, max int) []hwtopo.ThreadID {
	if max == 0 {
		return nil
	}

	var out []hwtopo.ThreadID
	for _, seg := range strings.Split(selector, "@") {
		if seg == "" {
			continue
		}
		out = append(out, dispatch(seg, domains, tpc, restrictedCPUSet)...)
	}

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func dispatch(seg string, domains *affinity.Domains, tpc int, restrictedCPUSet bool) []hwtopo.ThreadID {
	switch {
	case strings.Contains(seg, "scatter"):
		segmentParses.WithLabelValues("scatter").Inc()
		return scatter(seg, domains, tpc)

	case strings.HasPrefix(seg, "E"):
		segmentParses.WithLabelValues("expression").Inc()
		return expression(seg, domains)

	case strings.HasPrefix(seg, "L"):
		segmentParses.WithLabelValues("logical").Inc()
		return logical(seg, domains, tpc)

	case isTaggedSegment(seg):
		segmentParses.WithLabelValues("logical").Inc()
		return logical("L:"+seg, domains, tpc)

	case restrictedCPUSet:
		segmentParses.WithLabelValues("logical").Inc()
		return logical("L:N:"+seg, domains, tpc)

	default:
		segmentParses.WithLabelValues("physical").Inc()
		return physical(seg, domains)
	}
}

// isTaggedSegment reports whether seg is the bare-prefix shorthand
// "N:"/"S:"/"C:"/"M:" (no digits between the letter and the colon),
// which upgrades to Logical mode. A concrete tag like "S0:0-3" has a
// digit before the colon and is left to fall through to Physical mode
// (or to the "L:N:" rewrite under a restricted cpuset) instead, since
// "S0" is already a complete, directly addressable
// domain tag: only the Node domain's tag ("N") has no numeric suffix of
// its own, so this shorthand is what lets "N:<indexlist>" resolve
// without spelling out "L:N:<indexlist>".
func isTaggedSegment(seg string) bool {
	if len(seg) < 2 || seg[1] != ':' {
		return false
	}
	return util.Contains(tagAlphabet, seg[0])
}
