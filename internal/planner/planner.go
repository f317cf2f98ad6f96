package planner

import (
	"path/filepath"
	"strings"

	"github.com/orizon-lang/orizon-modplan/internal/artifact"
	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
	"github.com/orizon-lang/orizon-modplan/internal/pcmpath"
	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// clangJobKey identifies one Clang build job: a module compiled under one
// specific PCM-args vector (§4.F: "clangJobs : mapping (ModuleId, ordered
// sequence of string) → Job").
type clangJobKey struct {
	id      idgraph.ModuleID
	argsKey string
}

func pcmArgsKey(args []string) string { return strings.Join(args, "\x00") }

// Planner holds the two job caches and the collaborators (§4.F, §13) the
// planning DFS needs: a resolved, placeholder-free, re-scanned graph; a
// temp directory for artifact side-files; the tool binary path stamped
// onto every job; and the writer that persists those side-files.
type Planner struct {
	g        *idgraph.Graph
	tempDir  string
	toolPath string
	writer   artifact.Writer

	swiftJobs map[idgraph.ModuleID]*Job
	clangJobs map[clangJobKey]*Job
	jobs      []*Job
}

// New constructs a Planner over a fully resolved graph (no placeholders,
// already subject to the versioned Clang re-scan). tempDir is where
// artifact side-files are written; toolPath is stamped onto every job's
// ToolPath field.
func New(g *idgraph.Graph, tempDir, toolPath string, writer artifact.Writer) *Planner {
	return &Planner{
		g:         g,
		tempDir:   tempDir,
		toolPath:  toolPath,
		writer:    writer,
		swiftJobs: make(map[idgraph.ModuleID]*Job),
		clangJobs: make(map[clangJobKey]*Job),
	}
}

// PlanResult is the complete set of build jobs for a main module, in the
// order they were synthesized: each job comes after the jobs of the
// modules it depends on. It carries no other data; the main module's
// artifact side-file path appears only on its job's command line and
// inputs.
type PlanResult struct {
	Jobs []*Job
}

// Plan is the planning entry point (§4.F "Entry"): it computes the
// main module's pcmArgs, then synthesizes its build job exactly as any
// other Swift consumer's, discovering and caching every transitive
// dependency's job along the way. Job emission order is otherwise
// unspecified (§5); the main module's own job is appended last.
func (p *Planner) Plan() (*PlanResult, error) {
	mainID := p.g.MainModuleID()
	mainJob, err := p.genSwiftModuleBuildJob(mainID)
	if err != nil {
		return nil, err
	}
	p.jobs = append(p.jobs, mainJob)
	return &PlanResult{Jobs: p.jobs}, nil
}

// resolveExplicitModuleDependencies implements §4.F step-by-step: seeds
// the two implicit-modules-disabling flags, walks id's dependencies
// (flattening transitive into direct, per the module-level comment on
// addModuleDependencies), then appends the explicit-module-map flag and
// per-Clang-dependency flags derived from what the walk collected.
func (p *Planner) resolveExplicitModuleDependencies(id idgraph.ModuleID, pcmArgs []string) ([]string, []File, error) {
	commandLine := []string{
		"-disable-implicit-swift-modules",
		"-Xcc", "-Xclang", "-Xcc", "-fno-implicit-modules",
	}
	var inputs []File
	var swiftArtifacts []artifact.SwiftModuleArtifactInfo
	var clangArtifacts []artifact.ClangModuleArtifactInfo
	visited := make(map[idgraph.ModuleID]bool)

	if err := p.addModuleDependencies(id, pcmArgs, visited, &swiftArtifacts, &clangArtifacts); err != nil {
		return nil, nil, err
	}

	if len(swiftArtifacts) > 0 {
		data, err := artifact.Marshal(swiftArtifacts)
		if err != nil {
			return nil, nil, err
		}
		path := filepath.Join(p.tempDir, id.Name+"-dependencies.json")
		if err := p.writer.Write(path, data); err != nil {
			return nil, nil, err
		}
		commandLine = append(commandLine, "-explicit-swift-module-map-file", path)
		inputs = append(inputs, File{Path: path, Type: FileJSONDependencies})
		for _, sa := range swiftArtifacts {
			inputs = append(inputs, File{Path: sa.ModulePath, Type: FileSwiftModule})
		}
	}

	for _, ca := range clangArtifacts {
		commandLine = append(commandLine,
			"-Xcc", "-Xclang", "-Xcc", "-fmodule-file="+ca.ModulePath,
			"-Xcc", "-Xclang", "-Xcc", "-fmodule-map-file="+ca.ModuleMapPath,
		)
		inputs = append(inputs, File{Path: ca.ModulePath, Type: FilePcm})
		inputs = append(inputs, File{Path: ca.ModuleMapPath, Type: FileClangModuleMap})
	}

	return commandLine, inputs, nil
}

// addModuleDependencies walks id's direct dependencies. Every one that is
// itself a Swift/Clang module is resolved into an artifact descriptor
// (synthesizing and caching its build job on first encounter) and then
// recursed into, so that id's artifact lists end up containing the full
// transitive closure — "transitive becomes direct" (§4.F rationale).
func (p *Planner) addModuleDependencies(
	id idgraph.ModuleID,
	pcmArgs []string,
	visited map[idgraph.ModuleID]bool,
	swiftArtifacts *[]artifact.SwiftModuleArtifactInfo,
	clangArtifacts *[]artifact.ClangModuleArtifactInfo,
) error {
	info, err := p.g.ModuleInfo(id)
	if err != nil {
		return err
	}
	for _, dep := range info.DirectDependencies {
		if visited[dep] {
			continue
		}
		visited[dep] = true

		switch dep.Kind {
		case idgraph.Swift, idgraph.SwiftPrebuiltExternal:
			resolvedPath, err := p.resolveSwiftDependency(dep)
			if err != nil {
				return err
			}
			*swiftArtifacts = append(*swiftArtifacts, artifact.SwiftModuleArtifactInfo{
				ModuleName: dep.Name,
				ModulePath: resolvedPath,
			})
		case idgraph.Clang:
			outPath, mapPath, err := p.resolveClangDependency(dep, pcmArgs)
			if err != nil {
				return err
			}
			*clangArtifacts = append(*clangArtifacts, artifact.ClangModuleArtifactInfo{
				ModuleName:    dep.Name,
				ModulePath:    outPath,
				ModuleMapPath: mapPath,
			})
		case idgraph.SwiftPlaceholder:
			return &planererr.UnexpectedKind{Name: dep.Name, Kind: dep.Kind.String(), Stage: "job planning"}
		default:
			return &planererr.UnexpectedKind{Name: dep.Name, Kind: dep.Kind.String(), Stage: "job planning"}
		}

		if err := p.addModuleDependencies(dep, pcmArgs, visited, swiftArtifacts, clangArtifacts); err != nil {
			return err
		}
	}
	return nil
}

// resolveSwiftDependency implements the "Swift path" of §4.F: a module
// with an already-known compiled path (prebuilt-external, or an
// explicitCompiledModulePath override) needs no job; otherwise its job is
// synthesized and cached on first encounter.
func (p *Planner) resolveSwiftDependency(id idgraph.ModuleID) (string, error) {
	if id.Kind == idgraph.SwiftPrebuiltExternal {
		details, err := p.g.SwiftPrebuiltDetails(id)
		if err != nil {
			return "", err
		}
		return details.CompiledModulePath, nil
	}

	details, err := p.g.SwiftDetails(id)
	if err != nil {
		return "", err
	}
	if details.ExplicitCompiledModulePath != "" {
		return details.ExplicitCompiledModulePath, nil
	}

	if job, ok := p.swiftJobs[id]; ok {
		return job.Outputs[0].Path, nil
	}
	job, err := p.genSwiftModuleBuildJob(id)
	if err != nil {
		return "", err
	}
	p.swiftJobs[id] = job
	p.jobs = append(p.jobs, job)
	return job.Outputs[0].Path, nil
}

// resolveClangDependency implements the "Clang path" of §4.F.
func (p *Planner) resolveClangDependency(id idgraph.ModuleID, pcmArgs []string) (outPath, mapPath string, err error) {
	details, err := p.g.ClangDetails(id)
	if err != nil {
		return "", "", err
	}
	key := clangJobKey{id: id, argsKey: pcmArgsKey(pcmArgs)}
	job, ok := p.clangJobs[key]
	if !ok {
		job, err = p.genClangModuleBuildJob(id, pcmArgs)
		if err != nil {
			return "", "", err
		}
		p.clangJobs[key] = job
		p.jobs = append(p.jobs, job)
	}
	return job.Outputs[0].Path, details.ModuleMapPath, nil
}

// genSwiftModuleBuildJob implements §4.F's job synthesis for a Swift
// module: recurse to resolve its own dependencies, require a module
// interface, fold in compiled-module candidates, then emit the job.
func (p *Planner) genSwiftModuleBuildJob(id idgraph.ModuleID) (*Job, error) {
	details, err := p.g.SwiftDetails(id)
	if err != nil {
		return nil, err
	}
	pcmArgs, err := p.g.PcmArgs(id)
	if err != nil {
		return nil, err
	}

	commandLine := append([]string(nil), details.CommandLine...)
	subCommandLine, inputs, err := p.resolveExplicitModuleDependencies(id, pcmArgs)
	if err != nil {
		return nil, err
	}
	commandLine = append(commandLine, subCommandLine...)

	if details.ModuleInterfacePath == "" {
		return nil, &planererr.MalformedModule{Name: id.Name, Reason: "no moduleInterfacePath"}
	}
	inputs = append(inputs, File{Path: details.ModuleInterfacePath, Type: FileSwiftInterface})

	for _, candidate := range details.CompiledModuleCandidates {
		commandLine = append(commandLine, "-candidate-module-file", candidate)
		inputs = append(inputs, File{Path: candidate, Type: FileSwiftModule})
	}

	info, err := p.g.ModuleInfo(id)
	if err != nil {
		return nil, err
	}
	return &Job{
		ModuleName:  id.Name,
		Kind:        EmitModule,
		ToolPath:    p.toolPath,
		CommandLine: commandLine,
		Inputs:      inputs,
		Outputs:     []File{{Path: info.ModulePath, Type: FileSwiftModule}},
	}, nil
}

// genClangModuleBuildJob implements §4.F's job synthesis for a Clang
// module at a specific PCM-args vector.
func (p *Planner) genClangModuleBuildJob(id idgraph.ModuleID, pcmArgs []string) (*Job, error) {
	details, err := p.g.ClangDetails(id)
	if err != nil {
		return nil, err
	}
	info, err := p.g.ModuleInfo(id)
	if err != nil {
		return nil, err
	}

	commandLine := append([]string(nil), details.CommandLine...)
	commandLine = append(commandLine, pcmArgs...)
	subCommandLine, inputs, err := p.resolveExplicitModuleDependencies(id, pcmArgs)
	if err != nil {
		return nil, err
	}
	commandLine = append(commandLine, subCommandLine...)

	outPath := pcmpath.Encode(info.ModulePath, pcmArgs)
	commandLine = append(commandLine, "-emit-pcm", "-module-name", id.Name, "-o", outPath)
	inputs = append(inputs, File{Path: details.ModuleMapPath, Type: FileClangModuleMap})

	return &Job{
		ModuleName:  id.Name,
		Kind:        GeneratePcm,
		ToolPath:    p.toolPath,
		CommandLine: commandLine,
		Inputs:      inputs,
		Outputs:     []File{{Path: outPath, Type: FilePcm}},
	}, nil
}
