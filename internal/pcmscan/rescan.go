package pcmscan

import (
	"context"

	"github.com/orizon-lang/orizon-modplan/internal/graphmerge"
	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
)

// Rescanner invokes the external scanner in "scan one Clang module at this
// PCM-arg vector" mode. The returned graph describes clangID and its
// transitively reachable Clang dependencies.
type Rescanner interface {
	RescanClangModule(ctx context.Context, clangID idgraph.ModuleID, pcmArgs PcmArgVector) (*idgraph.Graph, error)
}

// RescannerFunc adapts a plain function to the Rescanner interface.
type RescannerFunc func(ctx context.Context, clangID idgraph.ModuleID, pcmArgs PcmArgVector) (*idgraph.Graph, error)

func (f RescannerFunc) RescanClangModule(ctx context.Context, clangID idgraph.ModuleID, pcmArgs PcmArgVector) (*idgraph.Graph, error) {
	return f(ctx, clangID, pcmArgs)
}

// Run computes the path-PCM-args set for g, issues one re-scan per
// (clangModule, pcmArgsVector) pair via r, and merges every resulting
// sub-graph back into g. Per §4.E's merge-back rule: absent modules are
// inserted, present ones have their DirectDependencies extended with any
// not-yet-seen ids in first-seen order — this makes
// g[clangId].DirectDependencies the union across all PCM-args variants,
// the superset any single build job might need.
func Run(ctx context.Context, g *idgraph.Graph, r Rescanner) error {
	pathArgs, err := ComputePathPcmArgs(g)
	if err != nil {
		return err
	}

	for _, clangID := range pathArgs.Modules() {
		for _, vec := range pathArgs.Vectors(clangID) {
			sub, err := r.RescanClangModule(ctx, clangID, vec)
			if err != nil {
				return err
			}
			if err := mergeBack(g, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func mergeBack(g *idgraph.Graph, sub *idgraph.Graph) error {
	for id, info := range sub.Modules {
		if err := graphmerge.MergeOneIntoGraph(g, id, info); err != nil {
			return err
		}
	}
	return nil
}
