// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command likwid-pin is a CLI front-end over the affinity core: it
// resolves a selector expression against the local machine's topology
// and pins the current process to the resulting hardware thread set.
// It is explicitly outside the core this module specifies (spec.md §1
// calls command-line front-ends an external collaborator that only
// consumes the public operations of §4).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlexisC0de/likwid/affinity"
	"github.com/AlexisC0de/likwid/ccTopology"
	"github.com/AlexisC0de/likwid/config"
	"github.com/AlexisC0de/likwid/cpuselect"
	"github.com/AlexisC0de/likwid/hwtopo"
	"github.com/AlexisC0de/likwid/pinning"
	"github.com/spf13/cobra"
)

var (
	configPath string
	snapshot   string
	dryRun     bool
	maxCPUs    int
)

func main() {
	root := &cobra.Command{
		Use:   "likwid-pin [flags] <selector>",
		Short: "Pin the current process to hardware threads chosen by a selector expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runPin,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "ccConfig JSON file to read the affinity section from")
	root.Flags().StringVarP(&snapshot, "snapshot", "s", "", "JSON topology/NUMA snapshot to use instead of live discovery")
	root.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "resolve the selector and print the HWT list without pinning")
	root.Flags().IntVarP(&maxCPUs, "max", "m", 0, "cap the number of hardware threads resolved (0 = unlimited)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPin(cmd *cobra.Command, args []string) error {
	cfg := config.Load(configPath)
	if snapshot == "" {
		snapshot = cfg.SnapshotPath
	}

	src, err := pinSource()
	if err != nil {
		return err
	}

	facade := affinity.NewFacadeWithCacheDepth(src, cfg.LastLevelCacheDepth)
	domains, err := facade.Domains()
	if err != nil {
		return fmt.Errorf("likwid-pin: building affinity domains: %w", err)
	}

	topo, err := src.Topology()
	if err != nil {
		return fmt.Errorf("likwid-pin: reading topology: %w", err)
	}
	restricted := topo.ActiveHWThreads < topo.NumHWThreads

	limit := maxCPUs
	if limit <= 0 {
		limit = -1
	}
	ids := cpuselect.Parse(args[0], domains, topo.NumThreadsPerCore, restricted, limit)
	if len(ids) == 0 {
		return fmt.Errorf("likwid-pin: selector %q resolved to no hardware threads", args[0])
	}

	if dryRun {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(ids)
	}

	return pinProcess(ids)
}

// pinSource loads a snapshot-backed Source when --snapshot is given,
// otherwise discovers the local machine live through ccTopology.
func pinSource() (affinity.Source, error) {
	if snapshot != "" {
		raw, err := os.ReadFile(snapshot)
		if err != nil {
			return nil, fmt.Errorf("likwid-pin: reading snapshot %s: %w", snapshot, err)
		}
		return snapshotSource(raw)
	}

	topo, err := ccTopology.LocalTopology()
	if err != nil {
		return nil, fmt.Errorf("likwid-pin: discovering local topology: %w", err)
	}
	return ccTopology.NewSource(topo), nil
}

func snapshotSource(raw []byte) (affinity.Source, error) {
	snap, err := hwtopo.LoadSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("likwid-pin: loading snapshot: %w", err)
	}
	return hwtopo.NewSnapshotSource(snap), nil
}

func pinProcess(ids []hwtopo.ThreadID) error {
	if err := pinning.PinProcessSet(ids); err != nil {
		return fmt.Errorf("likwid-pin: pinning process: %w", err)
	}
	fmt.Fprintf(os.Stdout, "pinned process to %v\n", ids)
	return nil
}
