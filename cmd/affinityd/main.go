// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command affinityd is a small HTTP introspection server over the
// affinity core: it exposes the built AffinityDomains as JSON and
// resolves selector expressions via a query parameter. Like
// cmd/likwid-pin, it is "higher-level tooling" that only consumes the
// public operations of §4 and sits outside the core this module
// specifies.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"

	"github.com/AlexisC0de/likwid/affinity"
	cclog "github.com/AlexisC0de/likwid/ccLogger"
	"github.com/AlexisC0de/likwid/ccTopology"
	"github.com/AlexisC0de/likwid/config"
	"github.com/AlexisC0de/likwid/cpuselect"
	"github.com/AlexisC0de/likwid/hwtopo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	addr := flag.String("listen", ":8927", "address to listen on")
	configPath := flag.String("config", "", "ccConfig JSON file to read the affinity section from")
	snapshotPath := flag.String("snapshot", "", "JSON topology/NUMA snapshot to serve instead of live discovery")
	flag.Parse()

	cfg := config.Load(*configPath)
	path := *snapshotPath
	if path == "" {
		path = cfg.SnapshotPath
	}
	src, err := daemonSource(path)
	if err != nil {
		cclog.Errorf("affinityd: %v", err)
		os.Exit(1)
	}

	facade := affinity.NewFacadeWithCacheDepth(src, cfg.LastLevelCacheDepth)
	if _, err := facade.Domains(); err != nil {
		cclog.Errorf("affinityd: building affinity domains: %v", err)
		os.Exit(1)
	}

	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.Handler())
	router.Path("/domains").Methods(http.MethodGet).HandlerFunc(domainsHandler(facade))
	router.Path("/select").Methods(http.MethodGet).HandlerFunc(selectHandler(facade))

	cclog.Infof("affinityd: listening on %s", *addr)
	if err := http.ListenAndServe(*addr, router); err != nil {
		cclog.Errorf("affinityd: server exited: %v", err)
		os.Exit(1)
	}
}

// daemonSource loads a snapshot-backed Source when snapshotPath is
// given, otherwise discovers the local machine live through ccTopology.
func daemonSource(snapshotPath string) (affinity.Source, error) {
	if snapshotPath == "" {
		topo, err := ccTopology.LocalTopology()
		if err != nil {
			return nil, err
		}
		return ccTopology.NewSource(topo), nil
	}
	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		return nil, err
	}
	snap, err := hwtopo.LoadSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return hwtopo.NewSnapshotSource(snap), nil
}

// domainsHandler serves the full built domain set as JSON, grounded on
// affinity_printDomains but machine-readable instead of a text dump.
func domainsHandler(facade *affinity.Facade) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domains, err := facade.Domains()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domains.All())
	}
}

// selectHandler resolves ?select=<selector expression> against the
// built domain set and returns the ordered hardware thread list as
// JSON. An optional ?max=<n> caps the result the way Parse's max does.
func selectHandler(facade *affinity.Facade) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selector := r.URL.Query().Get("select")
		if selector == "" {
			http.Error(w, "missing ?select=<selector>", http.StatusBadRequest)
			return
		}

		domains, err := facade.Domains()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		max := -1
		if s := r.URL.Query().Get("max"); s != "" {
			json.Unmarshal([]byte(s), &max)
		}

		ids := cpuselect.Parse(selector, domains, tpcFromNode(domains), false, max)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ids)
	}
}

// tpcFromNode recovers threads-per-core from the Lookups built
// alongside the domain set, since the HTTP entry point has no direct
// Topology handle once the Facade has cached its Domains.
func tpcFromNode(domains *affinity.Domains) int {
	if domains.ProcessorsPerSocket == 0 || domains.NumSocketDomains == 0 {
		return 1
	}
	socket, ok := domains.Domain("S0")
	if !ok || len(socket.Processors) == 0 {
		return 1
	}
	core := domains.Lookups.ThreadToCore(socket.Processors[0])
	if core < 0 {
		return 1
	}
	count := 0
	for _, p := range socket.Processors {
		if domains.Lookups.ThreadToCore(p) == core {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}
