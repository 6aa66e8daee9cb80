// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package affinity

import (
	"errors"
	"testing"

	"github.com/AlexisC0de/likwid/hwtopo"
)

type fakeSource struct {
	topo     *hwtopo.Topology
	numa     *hwtopo.NumaInfo
	topoErr  error
	numaErr  error
	topoCall int
}

func (f *fakeSource) Topology() (*hwtopo.Topology, error) {
	f.topoCall++
	if f.topoErr != nil {
		return nil, f.topoErr
	}
	return f.topo, nil
}

func (f *fakeSource) NumaInfo() (*hwtopo.NumaInfo, error) {
	if f.numaErr != nil {
		return nil, f.numaErr
	}
	return f.numa, nil
}

func TestFacadeBuildsOnceAndCaches(t *testing.T) {
	topo := hwtopo.NewSynthetic(1, 2, 1, 2)
	src := &fakeSource{topo: topo, numa: uniformNuma(topo)}
	f := NewFacade(src)

	if f.Initialized() {
		t.Fatal("expected facade to start uninitialized")
	}

	d1, err := f.Domains()
	if err != nil {
		t.Fatalf("Domains() error = %v", err)
	}
	d2, err := f.Domains()
	if err != nil {
		t.Fatalf("Domains() second call error = %v", err)
	}
	if d1 != d2 {
		t.Error("expected cached Domains pointer on second call")
	}
	if src.topoCall != 1 {
		t.Errorf("Topology() called %d times, want 1", src.topoCall)
	}
	if !f.Initialized() {
		t.Error("expected facade to report initialized after build")
	}
}

func TestFacadeRebuildsAfterClose(t *testing.T) {
	topo := hwtopo.NewSynthetic(1, 2, 1, 2)
	src := &fakeSource{topo: topo, numa: uniformNuma(topo)}
	f := NewFacade(src)

	if _, err := f.Domains(); err != nil {
		t.Fatalf("Domains() error = %v", err)
	}
	f.Close()
	if f.Initialized() {
		t.Error("expected facade to be uninitialized after Close")
	}
	if _, err := f.Domains(); err != nil {
		t.Fatalf("Domains() after Close error = %v", err)
	}
	if src.topoCall != 2 {
		t.Errorf("Topology() called %d times across rebuild, want 2", src.topoCall)
	}
}

func TestFacadeReturnsErrorOnTopologyFailure(t *testing.T) {
	src := &fakeSource{topoErr: errors.New("discovery failed")}
	f := NewFacade(src)

	if _, err := f.Domains(); err == nil {
		t.Fatal("expected error when topology discovery fails")
	}
	if f.Initialized() {
		t.Error("expected facade to remain uninitialized after a failed build")
	}
}

func TestFacadeRejectsZeroSocketTopology(t *testing.T) {
	src := &fakeSource{topo: &hwtopo.Topology{}}
	f := NewFacade(src)

	if _, err := f.Domains(); err == nil {
		t.Fatal("expected error for a topology reporting zero sockets")
	}
}
