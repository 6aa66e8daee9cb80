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
)

// expressionToList parses a comma-separated list of bare domain indices
// against domains named "<prefix><k>", appending k for every index whose
// domain exists. It is the helper grounded on cpuexpr_to_list, shared by
// NodeList and SocketList.
func expressionToList(expr, prefix string, domains *affinity.Domains) []int {
	var out []int
	for _, tok := range strings.Split(expr, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		k, err := strconv.Atoi(tok)
		if err != nil {
			cclog.Errorf("cpuselect: invalid index %q in %s expression", tok, prefix)
			continue
		}
		if _, ok := domains.Domain(prefix + tok); !ok {
			cclog.Errorf("cpuselect: domain %s%s cannot be found", prefix, tok)
			continue
		}
		out = append(out, k)
	}
	return out
}

// NodeList resolves a comma-separated list of NUMA node indices
// ("0,1,2") into the subset that names an existing "M<k>" domain,
// grounded on nodestr_to_nodelist.
func NodeList(expr string, domains *affinity.Domains) []int {
	return expressionToList(expr, "M", domains)
}

// SocketList resolves a comma-separated list of socket indices into the
// subset that names an existing "S<k>" domain, grounded on
// sockstr_to_socklist.
func SocketList(expr string, domains *affinity.Domains) []int {
	return expressionToList(expr, "S", domains)
}
