// Package placeholder implements §4.D: replacing every SwiftPlaceholder
// node in a working graph with a real module description, pulled from
// either the client's promised compiled-path map or the process-wide
// oracle, then transitively importing that module's own dependencies.
package placeholder

import (
	"github.com/orizon-lang/orizon-modplan/internal/graphmerge"
	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
	"github.com/orizon-lang/orizon-modplan/internal/oracle"
	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// ExternalBuildArtifacts conveys promised compiled paths for modules the
// client will build (TargetModulePath) and a snapshot of previously
// aggregated oracle state the resolver may consult directly (ModuleInfo),
// per §3.
type ExternalBuildArtifacts struct {
	TargetModulePath map[idgraph.ModuleID]string
	ModuleInfo       map[idgraph.ModuleID]idgraph.ModuleInfo
}

// Resolve replaces every SwiftPlaceholder in g, mutating it in place, and
// returns g for convenience. Target placeholders (those with an entry in
// artifacts.TargetModulePath) are resolved first, per §4.D step 1; the
// final ordering of the remaining (non-target) placeholders does not
// affect the outcome, since each is resolved independently against the
// oracle and merges follow the same precedence table regardless of order.
func Resolve(g *idgraph.Graph, o *oracle.Oracle, artifacts ExternalBuildArtifacts) (*idgraph.Graph, error) {
	var targetPlaceholders, otherPlaceholders []idgraph.ModuleID
	for _, p := range g.Placeholders() {
		if _, ok := artifacts.TargetModulePath[p]; ok {
			targetPlaceholders = append(targetPlaceholders, p)
		} else {
			otherPlaceholders = append(otherPlaceholders, p)
		}
	}

	for _, p := range targetPlaceholders {
		if err := resolveTarget(g, o, artifacts, p); err != nil {
			return nil, err
		}
	}
	for _, p := range otherPlaceholders {
		if err := resolveNonTarget(g, o, p); err != nil {
			return nil, err
		}
	}

	for _, p := range g.Placeholders() {
		return nil, &planererr.UnresolvedPlaceholder{Name: p.Name}
	}
	return g, nil
}

func resolveTarget(g *idgraph.Graph, o *oracle.Oracle, artifacts ExternalBuildArtifacts, p idgraph.ModuleID) error {
	compiledPath := artifacts.TargetModulePath[p]

	externalID, externalInfo, ok := lookupExternal(o, artifacts, p.Name)
	if !ok {
		return &planererr.MissingExternalDependency{Name: p.Name}
	}

	resolvedID := idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: p.Name}
	newInfo := idgraph.ModuleInfo{
		ModulePath:         compiledPath,
		SourceFiles:        nil,
		DirectDependencies: append([]idgraph.ModuleID(nil), externalInfo.DirectDependencies...),
		Details: idgraph.Details{SwiftPrebuilt: &idgraph.SwiftPrebuiltExternalDetails{
			CompiledModulePath: compiledPath,
		}},
	}
	if err := graphmerge.MergeOneIntoGraph(g, resolvedID, newInfo); err != nil {
		return err
	}

	return importTransitiveClosure(g, o, artifacts, externalID, externalInfo)
}

func resolveNonTarget(g *idgraph.Graph, o *oracle.Oracle, p idgraph.ModuleID) error {
	externalID, externalInfo, ok := o.Lookup(p.Name)
	if !ok {
		return &planererr.MissingExternalDependency{Name: p.Name}
	}
	if err := graphmerge.MergeOneIntoGraph(g, externalID, externalInfo); err != nil {
		return err
	}
	return importTransitiveClosure(g, o, ExternalBuildArtifacts{}, externalID, externalInfo)
}

func lookupExternal(o *oracle.Oracle, artifacts ExternalBuildArtifacts, name string) (idgraph.ModuleID, idgraph.ModuleInfo, bool) {
	swiftID := idgraph.ModuleID{Kind: idgraph.Swift, Name: name}
	if info, ok := artifacts.ModuleInfo[swiftID]; ok {
		return swiftID, info, true
	}
	prebuiltID := idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: name}
	if info, ok := artifacts.ModuleInfo[prebuiltID]; ok {
		return prebuiltID, info, true
	}
	return o.Lookup(name)
}

// importTransitiveClosure runs a breadth-first walk from externalID over
// the client-supplied snapshot when it holds the id, falling back to the
// oracle otherwise, merging every visited (id, info) into g. The worklist is seeded with
// externalInfo's own dependencies and a visited set suppresses both
// revisits and worklist duplicates, per §4.D step 2.
func importTransitiveClosure(g *idgraph.Graph, o *oracle.Oracle, artifacts ExternalBuildArtifacts, externalID idgraph.ModuleID, externalInfo idgraph.ModuleInfo) error {
	visited := map[idgraph.ModuleID]bool{externalID: true}
	queue := append([]idgraph.ModuleID(nil), externalInfo.DirectDependencies...)
	queued := map[idgraph.ModuleID]bool{}
	for _, id := range queue {
		queued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		info, ok := artifacts.ModuleInfo[id]
		if !ok {
			info, ok = o.GetModuleInfo(id)
		}
		if !ok {
			return &planererr.MissingExternalDependency{Name: id.Name}
		}
		if err := graphmerge.MergeOneIntoGraph(g, id, info); err != nil {
			return err
		}

		for _, dep := range info.DirectDependencies {
			if !visited[dep] && !queued[dep] {
				queue = append(queue, dep)
				queued[dep] = true
			}
		}
	}
	return nil
}
