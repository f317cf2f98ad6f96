package planner

import "sort"

// JobKey identifies a job for diffing purposes: its consumer, kind, and
// primary output path (for Clang jobs this distinguishes PCM-args
// variants of the same module, per §8 invariant 3).
type JobKey struct {
	ModuleName string
	Kind       JobKind
	OutputPath string
}

func keyOf(j *Job) JobKey {
	var out string
	if len(j.Outputs) > 0 {
		out = j.Outputs[0].Path
	}
	return JobKey{ModuleName: j.ModuleName, Kind: j.Kind, OutputPath: out}
}

// Diff reports the job keys present in one PlanResult but not the other.
// Grounded on the teacher's incremental-build Diff over snapshots, this is
// diagnostic tooling over the planner's output, not a cache: it never
// feeds a later plan back into itself.
type Diff struct {
	Added   []JobKey
	Removed []JobKey
}

// DiffResults computes Diff(before, after): jobs that only exist in after
// are Added, jobs that only exist in before are Removed.
func DiffResults(before, after *PlanResult) Diff {
	beforeKeys := make(map[JobKey]bool, len(before.Jobs))
	for _, j := range before.Jobs {
		beforeKeys[keyOf(j)] = true
	}
	afterKeys := make(map[JobKey]bool, len(after.Jobs))
	for _, j := range after.Jobs {
		afterKeys[keyOf(j)] = true
	}

	var d Diff
	for k := range afterKeys {
		if !beforeKeys[k] {
			d.Added = append(d.Added, k)
		}
	}
	for k := range beforeKeys {
		if !afterKeys[k] {
			d.Removed = append(d.Removed, k)
		}
	}
	sort.Slice(d.Added, func(i, j int) bool { return jobKeyLess(d.Added[i], d.Added[j]) })
	sort.Slice(d.Removed, func(i, j int) bool { return jobKeyLess(d.Removed[i], d.Removed[j]) })
	return d
}

func jobKeyLess(a, b JobKey) bool {
	if a.ModuleName != b.ModuleName {
		return a.ModuleName < b.ModuleName
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.OutputPath < b.OutputPath
}
