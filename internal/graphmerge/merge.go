// Package graphmerge implements the §4.C merge precedence table shared by
// the oracle (merging a freshly scanned graph into process-wide state) and
// the placeholder resolver and versioned Clang re-scan (merging results
// back into a working graph). Keeping the table in one place guarantees
// both call sites agree on what "merge" means.
package graphmerge

import "github.com/orizon-lang/orizon-modplan/internal/idgraph"

// Target is anything a single (id, info) pair can be merged into: a plain
// map (used by the oracle) or a *idgraph.Graph (used by working graphs,
// which additionally need edge rewriting on replacement).
type Target interface {
	has(id idgraph.ModuleID) (idgraph.ModuleInfo, bool)
	put(id idgraph.ModuleID, info idgraph.ModuleInfo)
	remove(id idgraph.ModuleID)
	// rewrite is a no-op for targets that do not track edges (a bare map).
	rewrite(original, replacement idgraph.ModuleID)
}

type mapTarget map[idgraph.ModuleID]idgraph.ModuleInfo

func (m mapTarget) has(id idgraph.ModuleID) (idgraph.ModuleInfo, bool) { info, ok := m[id]; return info, ok }
func (m mapTarget) put(id idgraph.ModuleID, info idgraph.ModuleInfo)   { m[id] = info }
func (m mapTarget) remove(id idgraph.ModuleID)                        { delete(m, id) }
func (m mapTarget) rewrite(idgraph.ModuleID, idgraph.ModuleID)         {}

type graphTarget struct{ g *idgraph.Graph }

func (t graphTarget) has(id idgraph.ModuleID) (idgraph.ModuleInfo, bool) {
	info, err := t.g.ModuleInfo(id)
	return info, err == nil
}
func (t graphTarget) put(id idgraph.ModuleID, info idgraph.ModuleInfo) { t.g.Set(id, info) }
func (t graphTarget) remove(id idgraph.ModuleID)                      { t.g.Delete(id) }
func (t graphTarget) rewrite(original, replacement idgraph.ModuleID)  { t.g.RewriteEdge(original, replacement) }

// MergeOne applies the §4.C precedence table to insert (id, info) into a
// raw map, e.g. the oracle's internal store. The oracle has no notion of
// edges crossing module boundaries in the same sense a working graph does
// (each merged-in module keeps its own DirectDependencies as scanned), so
// "replace" here just overwrites; there is nothing to rewrite.
func MergeOne(m map[idgraph.ModuleID]idgraph.ModuleInfo, id idgraph.ModuleID, info idgraph.ModuleInfo) {
	mergeInto(mapTarget(m), id, info)
}

// MergeOneIntoGraph applies the §4.C precedence table to insert (id, info)
// into a working graph, rewriting edges from any id it replaces.
func MergeOneIntoGraph(g *idgraph.Graph, id idgraph.ModuleID, info idgraph.ModuleInfo) error {
	return mergeInto(graphTarget{g}, id, info)
}

func mergeInto(t Target, id idgraph.ModuleID, info idgraph.ModuleInfo) error {
	switch id.Kind {
	case idgraph.Swift:
		return mergeSwiftLike(t, id, info)
	case idgraph.SwiftPrebuiltExternal:
		return mergeSwiftLike(t, id, info)
	case idgraph.Clang:
		return mergeClang(t, id, info)
	case idgraph.SwiftPlaceholder:
		// Insertion is permitted only during intermediate states. This
		// package is used both for such intermediate merges (the
		// placeholder resolver inserting a not-yet-replaced placeholder
		// into a fresh working graph) and for final merges; callers that
		// have already resolved all placeholders should never reach here
		// with a SwiftPlaceholder id, but we do not second-guess callers —
		// that invariant is the placeholder resolver's to enforce (§4.D
		// step 4).
		t.put(id, info)
		return nil
	default:
		t.put(id, info)
		return nil
	}
}

// mergeSwiftLike handles both Swift(n) and SwiftPrebuiltExternal(n)
// incoming ids, which share one row shape in the precedence table:
// "prebuilt/already-known wins" over an incoming Swift, and an incoming
// SwiftPrebuiltExternal always replaces a Swift or SwiftPlaceholder.
func mergeSwiftLike(t Target, id idgraph.ModuleID, info idgraph.ModuleInfo) error {
	name := id.Name
	_, hasSwift := t.has(idgraph.ModuleID{Kind: idgraph.Swift, Name: name})
	_, hasPrebuilt := t.has(idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: name})
	_, hasPlaceholder := t.has(idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: name})

	if id.Kind == idgraph.Swift {
		if hasPrebuilt || hasSwift {
			// keep existing (prebuilt/already-known wins)
			return nil
		}
		if hasPlaceholder {
			placeholderID := idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: name}
			t.put(id, info)
			t.remove(placeholderID)
			t.rewrite(placeholderID, id)
			return nil
		}
		t.put(id, info)
		return nil
	}

	// id.Kind == SwiftPrebuiltExternal
	if hasSwift {
		existingID := idgraph.ModuleID{Kind: idgraph.Swift, Name: name}
		t.put(id, info)
		t.remove(existingID)
		t.rewrite(existingID, id)
		return nil
	}
	if hasPlaceholder {
		placeholderID := idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: name}
		t.put(id, info)
		t.remove(placeholderID)
		t.rewrite(placeholderID, id)
		return nil
	}
	t.put(id, info)
	return nil
}

// mergeClang handles the Clang(n)/Clang(n) row: union DirectDependencies
// preserving first-seen order, keeping the existing CommandLine and
// ModuleMapPath.
func mergeClang(t Target, id idgraph.ModuleID, info idgraph.ModuleInfo) error {
	existing, ok := t.has(id)
	if !ok {
		t.put(id, info)
		return nil
	}
	merged := existing
	merged.DirectDependencies = unionPreserveOrder(existing.DirectDependencies, info.DirectDependencies)
	t.put(id, merged)
	return nil
}

func unionPreserveOrder(a, b []idgraph.ModuleID) []idgraph.ModuleID {
	seen := make(map[idgraph.ModuleID]bool, len(a)+len(b))
	out := make([]idgraph.ModuleID, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
