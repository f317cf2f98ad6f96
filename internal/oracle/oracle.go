// Package oracle provides the process-wide dependency oracle: a
// single-writer/multiple-reader keyed store of module information
// aggregated across scans of multiple top-level targets. It answers "what
// does module X look like?" for the placeholder resolver (§4.D) and is
// populated by the graph merger (§4.C) after each top-level scan.
//
// The oracle does not spawn scans; it only caches results merged in by its
// caller. Concurrent readers are permitted; writers serialize on a single
// logical lock (a sync.RWMutex).
package oracle

import (
	"sync"

	"github.com/orizon-lang/orizon-modplan/internal/graphmerge"
	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
	"github.com/orizon-lang/orizon-modplan/internal/protocol"
)

// Oracle is the shared, append-mostly module store.
type Oracle struct {
	mu      sync.RWMutex
	modules map[idgraph.ModuleID]idgraph.ModuleInfo
	// version is the scanner protocol version that last supplied module
	// info, per id. A merge reported by an older scanner build than what
	// is already on file for that id is stale and is dropped rather than
	// overwriting newer data (§11, protocol version gate).
	version map[idgraph.ModuleID]string
}

// New creates an empty oracle.
func New() *Oracle {
	return &Oracle{
		modules: make(map[idgraph.ModuleID]idgraph.ModuleInfo),
		version: make(map[idgraph.ModuleID]string),
	}
}

// MergeIn folds every entry of a fully-resolved graph into the oracle
// using the §4.C precedence table. The graph's own internal edges are not
// rewritten by this call — the oracle is a flat store, not a graph with
// intra-node edges that need maintaining — but the precedence decisions
// that govern what ends up stored follow the same table the working-graph
// merger uses. scannerVersion is the protocol version the scan was
// produced by; pass "" when the caller has no version to report (e.g. in
// tests), which disables staleness checking for that merge.
func (o *Oracle) MergeIn(g *idgraph.Graph, scannerVersion string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, info := range g.Modules {
		if scannerVersion != "" {
			if prior, ok := o.version[id]; ok && prior != "" {
				if older, err := protocol.Newer(prior, scannerVersion); err == nil && older {
					continue
				}
			}
			o.version[id] = scannerVersion
		}
		graphmerge.MergeOne(o.modules, id, info)
	}
}

// GetModuleInfo returns the cached record for id, if any.
func (o *Oracle) GetModuleInfo(id idgraph.ModuleID) (idgraph.ModuleInfo, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	info, ok := o.modules[id]
	return info, ok
}

// GetDependencies returns the cached direct dependency list for id, if any.
func (o *Oracle) GetDependencies(id idgraph.ModuleID) ([]idgraph.ModuleID, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	info, ok := o.modules[id]
	if !ok {
		return nil, false
	}
	out := make([]idgraph.ModuleID, len(info.DirectDependencies))
	copy(out, info.DirectDependencies)
	return out, true
}

// Lookup finds the best available id for a module name, preferring
// Swift(name) and falling back to SwiftPrebuiltExternal(name), which is
// the lookup order §4.D step 2 specifies when resolving a placeholder.
func (o *Oracle) Lookup(name string) (idgraph.ModuleID, idgraph.ModuleInfo, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	swiftID := idgraph.ModuleID{Kind: idgraph.Swift, Name: name}
	if info, ok := o.modules[swiftID]; ok {
		return swiftID, info, true
	}
	prebuiltID := idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: name}
	if info, ok := o.modules[prebuiltID]; ok {
		return prebuiltID, info, true
	}
	return idgraph.ModuleID{}, idgraph.ModuleInfo{}, false
}
