// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"reflect"
	"testing"

	"github.com/AlexisC0de/likwid/affinity"
	"github.com/AlexisC0de/likwid/hwtopo"
)

// machineM1 builds a 2-socket/4-core/2-SMT machine: socket 0 owns HWTs
// 0-7, socket 1 owns 8-15, one NUMA node and one LLC per socket.
func machineM1() (*affinity.Domains, int) {
	topo := hwtopo.NewSynthetic(2, 4, 2, 4)
	numa := &hwtopo.NumaInfo{Nodes: []hwtopo.NumaNode{
		{Processors: []hwtopo.ThreadID{0, 1, 2, 3, 4, 5, 6, 7}},
		{Processors: []hwtopo.ThreadID{8, 9, 10, 11, 12, 13, 14, 15}},
	}}
	return affinity.Build(topo, numa), topo.NumThreadsPerCore
}

func ids(vs ...int) []hwtopo.ThreadID {
	out := make([]hwtopo.ThreadID, len(vs))
	for i, v := range vs {
		out[i] = hwtopo.ThreadID(v)
	}
	return out
}

func TestScenarioPhysicalRange(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S0:0-3", d, tpc, false, -1)
	want := ids(0, 1, 2, 3)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(S0:0-3) = %v, want %v", got, want)
	}
}

func TestScenarioExpressionChunkStride(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("E:S1:4:2:4", d, tpc, false, -1)
	want := ids(8, 9, 12, 13)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(E:S1:4:2:4) = %v, want %v", got, want)
	}
}

func TestScenarioScatter(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S:scatter", d, tpc, false, -1)
	want := ids(0, 8, 2, 10, 4, 12, 6, 14, 1, 9, 3, 11, 5, 13, 7, 15)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(S:scatter) = %v, want %v", got, want)
	}
}

func TestScenarioLogicalNodePrefix(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("L:N:0-3", d, tpc, false, -1)
	want := ids(0, 2, 4, 6)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(L:N:0-3) = %v, want %v", got, want)
	}
}

func TestScenarioMultiSegment(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S0:0-1@S1:8-9", d, tpc, false, -1)
	want := ids(0, 1, 8, 9)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(S0:0-1@S1:8-9) = %v, want %v", got, want)
	}
}

func TestScenarioLogicalExactFitNoWarning(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("L:S0:0-7", d, tpc, false, -1)
	want := ids(0, 2, 4, 6, 1, 3, 5, 7)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(L:S0:0-7) = %v, want %v", got, want)
	}
}

func TestScenarioLogicalOverselectionDuplicates(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("L:S0:0-15", d, tpc, false, -1)
	want := ids(0, 2, 4, 6, 1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(L:S0:0-15) = %v, want %v", got, want)
	}
}

func TestDescendingRangeEmitsInOrder(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S0:5-2", d, tpc, false, -1)
	want := ids(5, 4, 3, 2)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(S0:5-2) = %v, want %v", got, want)
	}
}

func TestMaxZeroReturnsNothing(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S0:0-3", d, tpc, false, 0)
	if got != nil {
		t.Errorf("Parse with max=0 = %v, want nil", got)
	}
}

func TestEmptySegmentBetweenAtSignsContributesNothing(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S0:0-1@@S1:8-9", d, tpc, false, -1)
	want := ids(0, 1, 8, 9)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse with empty segment = %v, want %v", got, want)
	}
}

func TestMaxTruncatesAcrossSegments(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("S0:0-3@S1:8-11", d, tpc, false, 5)
	want := ids(0, 1, 2, 3, 8)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse with max=5 = %v, want %v", got, want)
	}
}

func TestRestrictedCPUSetUpgradesBareIndexlistToLogical(t *testing.T) {
	d, tpc := machineM1()
	got := Parse("0-3", d, tpc, true, -1)
	want := ids(0, 2, 4, 6)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(0-3, restricted) = %v, want %v", got, want)
	}
}

func TestNodeListRoundTrip(t *testing.T) {
	d, _ := machineM1()
	got := NodeList("0,1", d)
	want := []int{0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NodeList(0,1) = %v, want %v", got, want)
	}
}

func TestConcreteTagFallsThroughToPhysicalNotLogical(t *testing.T) {
	// "S0:0-3" has a digit before the colon, so it resolves as Physical
	// mode (literal HWT IDs), not the Logical-mode rewrite that a bare
	// "S:" shorthand would trigger.
	d, tpc := machineM1()
	got := Parse("S0:0-3", d, tpc, false, -1)
	want := ids(0, 1, 2, 3)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(S0:0-3) = %v, want %v (physical, not logical)", got, want)
	}
}

func TestBareNodePrefixUpgradesToLogical(t *testing.T) {
	// "N:" has no digit before the colon, so it uses the bare-prefix
	// shorthand and resolves identically to an explicit "L:N:0-3".
	d, tpc := machineM1()
	got := Parse("N:0-3", d, tpc, false, -1)
	want := Parse("L:N:0-3", d, tpc, false, -1)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(N:0-3) = %v, want %v (same as L:N:0-3)", got, want)
	}
}

func TestSocketListSkipsUnknownDomain(t *testing.T) {
	d, _ := machineM1()
	got := SocketList("0,9", d)
	want := []int{0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SocketList(0,9) = %v, want %v", got, want)
	}
}
