// Package planner implements §4.F: the DFS from the main module that
// ensures a build job exists for every encountered dependency, assembles
// command lines and input/output paths, and emits the artifact side-file
// referenced from each Swift job.
package planner

// JobKind tags the kind of work a Job performs.
type JobKind int

const (
	// EmitModule compiles a .swiftinterface (plus its explicit module
	// dependencies) into a .swiftmodule.
	EmitModule JobKind = iota
	// GeneratePcm compiles a Clang module map into a target-encoded PCM.
	GeneratePcm
	// ScanDependencies would represent a deferred scan to be executed by
	// the outer driver. This planner never emits one: the open question in
	// §9 is resolved here in favor of a synchronous in-process scanner
	// invocation, so every scan has already happened by the time jobs are
	// produced.
	ScanDependencies
)

func (k JobKind) String() string {
	switch k {
	case EmitModule:
		return "EmitModule"
	case GeneratePcm:
		return "GeneratePcm"
	case ScanDependencies:
		return "ScanDependencies"
	default:
		return "Unknown"
	}
}

// FileType tags a File's role, per §6's job record schema.
type FileType int

const (
	FileSwift FileType = iota
	FileSwiftInterface
	FileSwiftModule
	FilePcm
	FileClangModuleMap
	FileJSONSwiftArtifacts
	FileJSONDependencies
)

func (t FileType) String() string {
	switch t {
	case FileSwift:
		return "swift"
	case FileSwiftInterface:
		return "swiftInterface"
	case FileSwiftModule:
		return "swiftModule"
	case FilePcm:
		return "pcm"
	case FileClangModuleMap:
		return "clangModuleMap"
	case FileJSONSwiftArtifacts:
		return "jsonSwiftArtifacts"
	case FileJSONDependencies:
		return "jsonDependencies"
	default:
		return "unknown"
	}
}

// File is a path tagged with its role as a job input or output.
type File struct {
	Path string
	Type FileType
}

// Job is one unit of build work: a tool invocation with a command line and
// the inputs/outputs a build system needs to order it against others.
// Jobs, once produced, are immutable values (§3 Lifecycle).
type Job struct {
	ModuleName  string
	Kind        JobKind
	ToolPath    string
	CommandLine []string
	Inputs      []File
	Outputs     []File
}
