package planner

import "sort"

// Stats summarizes a completed plan, grounded on the teacher's Stats
// counters over a completed build (TotalTargets/Succeeded/Failed):
// directly testable against §8's invariants 3 and 5.
type Stats struct {
	SwiftJobCount int
	ClangJobCount int
	// UniquePcmArgVectors maps each Clang module name to how many distinct
	// PCM-arg vectors it was compiled under.
	UniquePcmArgVectors map[string]int
}

// Stats computes a Stats snapshot from the planner's job list after Plan
// has run. Calling it before Plan returns an empty, non-nil Stats.
func (p *Planner) Stats() Stats {
	vectors := make(map[string]int)
	for key := range p.clangJobs {
		vectors[key.id.Name]++
	}
	var swiftCount, clangCount int
	for _, j := range p.jobs {
		switch j.Kind {
		case EmitModule:
			swiftCount++
		case GeneratePcm:
			clangCount++
		}
	}
	return Stats{
		SwiftJobCount:       swiftCount,
		ClangJobCount:       clangCount,
		UniquePcmArgVectors: vectors,
	}
}

// SortedModuleNames returns the Clang module names present in
// UniquePcmArgVectors, sorted, for deterministic reporting.
func (s Stats) SortedModuleNames() []string {
	names := make([]string, 0, len(s.UniquePcmArgVectors))
	for name := range s.UniquePcmArgVectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
