// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hwtopo

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*
var schemaFiles embed.FS

// Snapshot is the JSON-serializable pairing of a Topology and its NumaInfo,
// the shape a reproducible test or debug run loads instead of live
// discovery. Mirrors ccTopology's MarshalJSON/UnmarshalJSON/RemoteTopology
// pattern for the plain-Go data model in this package.
type Snapshot struct {
	Topology Topology `json:"topology"`
	Numa     NumaInfo `json:"numa"`
}

// ValidateSnapshot checks r against the embedded topology snapshot schema
// before it is ever decoded into a Snapshot. Rejecting malformed input here
// surfaces a bad snapshot before the Domain Builder ever runs on it.
func ValidateSnapshot(r io.Reader) error {
	jsonschema.Loaders["embedfs"] = func(s string) (io.ReadCloser, error) {
		f := filepath.Join("schemas", strings.Split(s, "//")[1])
		return schemaFiles.Open(f)
	}
	s, err := jsonschema.Compile("embedfs://topology.schema.json")
	if err != nil {
		cclog.Errorf("hwtopo: failed to compile topology snapshot schema: %v", err)
		return err
	}

	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		cclog.Warnf("hwtopo: failed to decode snapshot as JSON: %v", err)
		return err
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("hwtopo: snapshot failed validation: %w", err)
	}
	return nil
}

// LoadSnapshot validates and decodes a JSON topology/NUMA snapshot. raw
// is read twice: once for validation, once for decoding.
func LoadSnapshot(raw []byte) (*Snapshot, error) {
	if err := ValidateSnapshot(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("hwtopo: failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// SnapshotSource adapts a loaded Snapshot into an affinity.Source,
// mirroring ccTopology.Source for the hwloc-backed live discovery path:
// callers that want a reproducible, recorded machine description for
// tests or debug runs use this instead of live discovery.
type SnapshotSource struct {
	snap *Snapshot
}

// NewSnapshotSource wraps an already-loaded Snapshot.
func NewSnapshotSource(snap *Snapshot) *SnapshotSource {
	return &SnapshotSource{snap: snap}
}

// Topology returns the snapshot's topology.
func (s *SnapshotSource) Topology() (*Topology, error) {
	return &s.snap.Topology, nil
}

// NumaInfo returns the snapshot's NUMA description.
func (s *SnapshotSource) NumaInfo() (*NumaInfo, error) {
	return &s.snap.Numa, nil
}
