// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config holds the operator-facing knobs for the affinity
// facility that aren't part of the selector grammar itself: which cache
// depth the Domain Builder treats as "last level", and an optional path
// to a JSON topology/NUMA snapshot to use instead of live hwloc
// discovery. It is a thin JSON struct layered on top of ccConfig, read
// from its own named "affinity" section.
package config

import (
	"encoding/json"

	ccconfig "github.com/AlexisC0de/likwid/ccConfig"
	cclog "github.com/AlexisC0de/likwid/ccLogger"
)

// Affinity holds the settings read from the "affinity" section of a
// ccConfig file.
type Affinity struct {
	// LastLevelCacheDepth overrides the cache depth the Domain Builder
	// treats as the last level. Zero means "use the default of 3".
	LastLevelCacheDepth int `json:"last_level_cache_depth"`

	// SnapshotPath, when non-empty, points at a JSON topology/NUMA
	// snapshot (see hwtopo.LoadSnapshot) to use in place of live
	// discovery.
	SnapshotPath string `json:"snapshot_path"`
}

// Default returns an Affinity with the module's built-in defaults.
func Default() Affinity {
	return Affinity{LastLevelCacheDepth: 3}
}

// Load reads filename via ccConfig and decodes its "affinity" section.
// An empty filename, a missing file or a missing "affinity" section
// fall back to Default(); an "affinity" section that does not decode
// into Affinity falls back to Default() with a logged warning. A file
// that is not valid JSON at all makes ccConfig.Init end the program.
func Load(filename string) Affinity {
	cfg := Default()
	if filename == "" {
		return cfg
	}

	ccconfig.Init(filename)
	raw := ccconfig.GetPackageConfig("affinity")
	if raw == nil {
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		cclog.Warnf("config: malformed affinity section in %s: %v", filename, err)
		return Default()
	}
	if cfg.LastLevelCacheDepth <= 0 {
		cfg.LastLevelCacheDepth = 3
	}
	return cfg
}
