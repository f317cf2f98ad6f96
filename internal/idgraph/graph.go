package idgraph

import (
	"sort"

	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// Graph is the InterModuleDependencyGraph of §3: a main module name plus a
// keyed set of module records. It is mutable by value (callers replace
// entries in place during merging and resolution) but the ModuleID keys
// themselves are treated as immutable identities.
type Graph struct {
	MainModuleName string
	Modules        map[ModuleID]ModuleInfo
}

// New creates an empty graph for the given main module name.
func New(mainModuleName string) *Graph {
	return &Graph{
		MainModuleName: mainModuleName,
		Modules:        make(map[ModuleID]ModuleInfo),
	}
}

// MainModuleID returns the ModuleID of the main module, which is always
// Swift-kinded.
func (g *Graph) MainModuleID() ModuleID {
	return ModuleID{Kind: Swift, Name: g.MainModuleName}
}

// ModuleInfo returns the record for id, or MissingModule if absent.
func (g *Graph) ModuleInfo(id ModuleID) (ModuleInfo, error) {
	info, ok := g.Modules[id]
	if !ok {
		return ModuleInfo{}, &planererr.MissingModule{Name: id.Name}
	}
	return info, nil
}

// SwiftDetails returns the Swift-kinded details for id, failing with
// MalformedModule if id is not Swift-kinded or its details are absent.
func (g *Graph) SwiftDetails(id ModuleID) (*SwiftDetails, error) {
	info, err := g.ModuleInfo(id)
	if err != nil {
		return nil, err
	}
	if info.Details.Swift == nil {
		return nil, &planererr.MalformedModule{Name: id.Name, Reason: "no swift details"}
	}
	return info.Details.Swift, nil
}

// ClangDetails returns the Clang-kinded details for id.
func (g *Graph) ClangDetails(id ModuleID) (*ClangDetails, error) {
	info, err := g.ModuleInfo(id)
	if err != nil {
		return nil, err
	}
	if info.Details.Clang == nil {
		return nil, &planererr.MalformedModule{Name: id.Name, Reason: "no clang details"}
	}
	return info.Details.Clang, nil
}

// SwiftPrebuiltDetails returns the SwiftPrebuiltExternal-kinded details for id.
func (g *Graph) SwiftPrebuiltDetails(id ModuleID) (*SwiftPrebuiltExternalDetails, error) {
	info, err := g.ModuleInfo(id)
	if err != nil {
		return nil, err
	}
	if info.Details.SwiftPrebuilt == nil {
		return nil, &planererr.MalformedModule{Name: id.Name, Reason: "no prebuilt external details"}
	}
	return info.Details.SwiftPrebuilt, nil
}

// PcmArgs reads extraPcmArgs from a Swift or SwiftPrebuiltExternal module,
// failing with MissingPcmArgs if the id is of a kind with no pcm args
// concept, or if the field was never populated by the scanner.
func (g *Graph) PcmArgs(id ModuleID) ([]string, error) {
	info, err := g.ModuleInfo(id)
	if err != nil {
		return nil, err
	}
	switch id.Kind {
	case Swift:
		d := info.Details.Swift
		if d == nil || !d.HasExtraPcmArgs {
			return nil, &planererr.MissingPcmArgs{Name: id.Name}
		}
		return d.ExtraPcmArgs, nil
	case SwiftPrebuiltExternal:
		d := info.Details.SwiftPrebuilt
		if d == nil || !d.HasExtraPcmArgs {
			return nil, &planererr.MissingPcmArgs{Name: id.Name}
		}
		return d.ExtraPcmArgs, nil
	default:
		return nil, &planererr.MissingPcmArgs{Name: id.Name}
	}
}

// Set inserts or overwrites the record for id.
func (g *Graph) Set(id ModuleID, info ModuleInfo) {
	g.Modules[id] = info
}

// Has reports whether id is present in the graph.
func (g *Graph) Has(id ModuleID) bool {
	_, ok := g.Modules[id]
	return ok
}

// Delete removes id from the graph.
func (g *Graph) Delete(id ModuleID) {
	delete(g.Modules, id)
}

// Placeholders returns every SwiftPlaceholder id present in the graph, in
// a deterministic (lexicographic by name) order.
func (g *Graph) Placeholders() []ModuleID {
	var out []ModuleID
	for id := range g.Modules {
		if id.Kind == SwiftPlaceholder {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RewriteEdge replaces every occurrence of originalID in any node's
// DirectDependencies with replacementID. Placeholder nodes are skipped
// because they carry no outgoing edges that matter (§4.C).
func (g *Graph) RewriteEdge(originalID, replacementID ModuleID) {
	for id, info := range g.Modules {
		if id.Kind == SwiftPlaceholder {
			continue
		}
		changed := false
		deps := info.DirectDependencies
		for i, d := range deps {
			if d == originalID {
				deps[i] = replacementID
				changed = true
			}
		}
		if changed {
			info.DirectDependencies = deps
			g.Modules[id] = info
		}
	}
}

// Validate checks the invariants of §3: the main module exists, every
// referenced dependency id is a key (placeholders excepted), and at most
// one of Swift/SwiftPrebuiltExternal/SwiftPlaceholder exists per name.
func (g *Graph) Validate(allowPlaceholders bool) error {
	if !g.Has(g.MainModuleID()) {
		return &planererr.MissingModule{Name: g.MainModuleName}
	}
	swiftSideKinds := make(map[string][]ModuleKind)
	for id, info := range g.Modules {
		for _, dep := range info.DirectDependencies {
			if dep.Kind == SwiftPlaceholder && allowPlaceholders {
				continue
			}
			if !g.Has(dep) {
				return &planererr.MissingModule{Name: dep.Name}
			}
		}
		switch id.Kind {
		case Swift, SwiftPrebuiltExternal, SwiftPlaceholder:
			swiftSideKinds[id.Name] = append(swiftSideKinds[id.Name], id.Kind)
		}
	}
	if !allowPlaceholders {
		for name, kinds := range swiftSideKinds {
			if len(kinds) > 1 {
				return &planererr.MalformedModule{
					Name:   name,
					Reason: "more than one swift-side kind present after resolution",
				}
			}
		}
	}
	return nil
}
