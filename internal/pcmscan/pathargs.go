// Package pcmscan implements §4.E: computing, for every Clang module, the
// set of distinct PCM-arg vectors reaching it along any path from the
// root, issuing one re-scan per (module, pcm-args) pair, and merging the
// re-scanned sub-graphs back into the working graph.
package pcmscan

import (
	"sort"
	"strings"

	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// PcmArgVector is an ordered sequence of PCM-arg flags, e.g. ["-target",
// "x86_64-apple-macos"].
type PcmArgVector []string

func (v PcmArgVector) key() string { return strings.Join(v, "\x00") }

// PathPcmArgsSet maps each Clang module reachable from the root to the
// distinct PCM-arg vectors that reach it along some path.
type PathPcmArgsSet struct {
	byModule map[idgraph.ModuleID]map[string]PcmArgVector
}

func newPathPcmArgsSet() *PathPcmArgsSet {
	return &PathPcmArgsSet{byModule: make(map[idgraph.ModuleID]map[string]PcmArgVector)}
}

func (s *PathPcmArgsSet) add(clangID idgraph.ModuleID, vectors map[string]PcmArgVector) {
	set, ok := s.byModule[clangID]
	if !ok {
		set = make(map[string]PcmArgVector)
		s.byModule[clangID] = set
	}
	for k, v := range vectors {
		set[k] = v
	}
}

// Vectors returns the distinct PCM-arg vectors reaching clangID, sorted
// for deterministic iteration.
func (s *PathPcmArgsSet) Vectors(clangID idgraph.ModuleID) []PcmArgVector {
	set, ok := s.byModule[clangID]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]PcmArgVector, 0, len(keys))
	for _, k := range keys {
		out = append(out, set[k])
	}
	return out
}

// Modules returns every Clang module id present in the set, sorted by name.
func (s *PathPcmArgsSet) Modules() []idgraph.ModuleID {
	out := make([]idgraph.ModuleID, 0, len(s.byModule))
	for id := range s.byModule {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ComputePathPcmArgs performs the DFS of §4.E from Swift(mainModuleName):
// entering a Swift/SwiftPrebuiltExternal node extends the running path set
// with that module's own pcm args and recurses into its dependencies;
// entering a Clang node records the path set reaching it and stops (Clang
// modules do not themselves contribute further Clang-only paths). A
// SwiftPlaceholder surviving to this stage is an UnexpectedKind invariant
// violation — all placeholders must already have been resolved (§4.D).
func ComputePathPcmArgs(g *idgraph.Graph) (*PathPcmArgsSet, error) {
	result := newPathPcmArgsSet()
	visited := make(map[visitKey]bool)
	err := walk(g, g.MainModuleID(), map[string]PcmArgVector{}, result, visited)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// visitKey dedupes (module, path-set) pairs already explored so that
// diamond-shaped graphs do not re-walk the same subtree once per
// converging path with an identical accumulated set.
type visitKey struct {
	id      idgraph.ModuleID
	pathKey string
}

func pathSetKey(path map[string]PcmArgVector) string {
	keys := make([]string, 0, len(path))
	for k := range path {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x01")
}

func walk(g *idgraph.Graph, id idgraph.ModuleID, path map[string]PcmArgVector, result *PathPcmArgsSet, visited map[visitKey]bool) error {
	switch id.Kind {
	case idgraph.Swift, idgraph.SwiftPrebuiltExternal:
		vk := visitKey{id: id, pathKey: pathSetKey(path)}
		if visited[vk] {
			return nil
		}
		visited[vk] = true

		args, err := g.PcmArgs(id)
		if err != nil {
			return err
		}
		nextPath := make(map[string]PcmArgVector, len(path)+1)
		for k, v := range path {
			nextPath[k] = v
		}
		vec := PcmArgVector(append([]string(nil), args...))
		nextPath[vec.key()] = vec

		info, err := g.ModuleInfo(id)
		if err != nil {
			return err
		}
		for _, dep := range info.DirectDependencies {
			if err := walk(g, dep, nextPath, result, visited); err != nil {
				return err
			}
		}
		return nil
	case idgraph.Clang:
		result.add(id, path)
		return nil
	case idgraph.SwiftPlaceholder:
		return &planererr.UnexpectedKind{Name: id.Name, Kind: id.Kind.String(), Stage: "versioned Clang re-scan"}
	default:
		return &planererr.UnexpectedKind{Name: id.Name, Kind: id.Kind.String(), Stage: "versioned Clang re-scan"}
	}
}
