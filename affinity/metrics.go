// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package affinity

import "github.com/prometheus/client_golang/prometheus"

var (
	domainRebuilds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "likwid",
		Subsystem: "affinity",
		Name:      "domain_rebuilds_total",
		Help:      "Number of times the affinity domain set was (re)built from a topology.",
	})

	domainBuildFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "likwid",
		Subsystem: "affinity",
		Name:      "domain_build_failures_total",
		Help:      "Number of domain builds aborted because of invalid topology or NUMA input.",
	})
)

func init() {
	prometheus.MustRegister(domainRebuilds, domainBuildFailures)
}
