// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"reflect"
	"testing"

	"github.com/AlexisC0de/likwid/hwtopo"
)

func TestSortTransformInterleavesSMTStrides(t *testing.T) {
	in := ids(0, 1, 2, 3, 4, 5, 6, 7)
	got := sortTransform(in, 2)
	want := ids(0, 2, 4, 6, 1, 3, 5, 7)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortTransform = %v, want %v", got, want)
	}
}

func TestSortTransformPreservesLength(t *testing.T) {
	in := ids(0, 1, 2, 3, 4, 5, 6)
	got := sortTransform(in, 2)
	if len(got) != len(in) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(in))
	}
	seen := make(map[hwtopo.ThreadID]bool, len(got))
	for _, v := range got {
		seen[v] = true
	}
	for _, v := range in {
		if !seen[v] {
			t.Errorf("sortTransform dropped value %d", v)
		}
	}
}

func TestSortTransformIsOrderPreservingWithinStride(t *testing.T) {
	in := ids(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	tpc := 2
	got := sortTransform(in, tpc)

	// Within the "off=0" stride, relative order must match the input.
	var evens []hwtopo.ThreadID
	for _, v := range in {
		if int(v)%tpc == 0 {
			evens = append(evens, v)
		}
	}
	if !reflect.DeepEqual(got[:len(evens)], evens) {
		t.Errorf("stride-0 prefix = %v, want %v", got[:len(evens)], evens)
	}
}

func TestSortTransformTrivialWhenSingleThreadPerCore(t *testing.T) {
	in := ids(0, 1, 2, 3)
	got := sortTransform(in, 1)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("sortTransform with tpc=1 = %v, want identity %v", got, in)
	}
}
