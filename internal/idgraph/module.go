// Package idgraph provides the immutable-by-identity, mutable-by-value
// representation of the inter-module dependency graph: module ids, module
// kinds, the per-kind details union, and the graph that ties them together.
//
// Everything downstream (the oracle, the merger, the placeholder resolver,
// the versioned Clang re-scan, and the job planner) operates on the types
// defined here.
package idgraph

import (
	"fmt"

	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// ModuleKind tags a ModuleId with the family of module it names.
type ModuleKind int

const (
	Swift ModuleKind = iota
	SwiftPlaceholder
	SwiftPrebuiltExternal
	Clang
)

func (k ModuleKind) String() string {
	switch k {
	case Swift:
		return "swift"
	case SwiftPlaceholder:
		return "swiftPlaceholder"
	case SwiftPrebuiltExternal:
		return "swiftPrebuiltExternal"
	case Clang:
		return "clang"
	default:
		return "unknown"
	}
}

// ModuleID is a tagged identifier: {kind, name}. Equality and hashing cover
// both fields, so it is safe to use directly as a map key. The name alone
// is the cross-kind identity used when merging (§4.C).
type ModuleID struct {
	Kind ModuleKind
	Name string
}

func (id ModuleID) String() string {
	return fmt.Sprintf("%s(%s)", id.Kind, id.Name)
}

// SwiftDetails holds the fields specific to a Swift module.
//
// ExtraPcmArgs is REQUIRED for any Swift module that participates in
// PCM-args computation (§4.E); its absence surfaces as MissingPcmArgs
// rather than a silently empty vector.
type SwiftDetails struct {
	ModuleInterfacePath        string
	CompiledModuleCandidates   []string
	ExplicitCompiledModulePath string
	BridgingHeaderPath         string
	BridgingSourceFiles        []string
	CommandLine                []string
	ExtraPcmArgs               []string
	// HasExtraPcmArgs distinguishes "no PCM args" from "field omitted by
	// the scanner", since ExtraPcmArgs may legitimately be an empty slice.
	HasExtraPcmArgs bool
}

// SwiftPlaceholderDetails holds the fields specific to a placeholder
// module. Placeholders have no dependencies of their own in scanner
// output; dependencies are supplied later from the oracle.
type SwiftPlaceholderDetails struct {
	ModuleDocPath        string
	ModuleSourceInfoPath string
}

// SwiftPrebuiltExternalDetails holds the fields specific to a resolved
// placeholder: a module whose compiled path is already known.
type SwiftPrebuiltExternalDetails struct {
	CompiledModulePath   string
	ModuleDocPath        string
	ModuleSourceInfoPath string
	ExtraPcmArgs         []string
	HasExtraPcmArgs      bool
}

// ClangDetails holds the fields specific to a Clang (PCM) module.
type ClangDetails struct {
	ModuleMapPath string
	ContextHash   string
	CommandLine   []string
}

// Details is the tagged union of per-kind module details. Exactly one of
// the typed fields is non-nil, and it must agree with the owning
// ModuleID's Kind; decoders reject mismatches at construction time.
type Details struct {
	Swift            *SwiftDetails
	SwiftPlaceholder *SwiftPlaceholderDetails
	SwiftPrebuilt    *SwiftPrebuiltExternalDetails
	Clang            *ClangDetails
}

// Kind reports which variant is populated, or -1 if Details is empty.
func (d Details) Kind() ModuleKind {
	switch {
	case d.Swift != nil:
		return Swift
	case d.SwiftPlaceholder != nil:
		return SwiftPlaceholder
	case d.SwiftPrebuilt != nil:
		return SwiftPrebuiltExternal
	case d.Clang != nil:
		return Clang
	default:
		return ModuleKind(-1)
	}
}

// ModuleInfo is the per-module record: its on-disk path, its source files,
// its direct dependencies (duplicate-free, order-preserving), and its
// kind-tagged details.
type ModuleInfo struct {
	ModulePath         string
	SourceFiles        []string
	DirectDependencies []ModuleID
	Details            Details
}

// Validate checks that Details.Kind() agrees with id.Kind and that
// kind-required fields are present. It does not check cross-module
// invariants (those belong to the graph).
func (m ModuleInfo) Validate(id ModuleID) error {
	dk := m.Details.Kind()
	if dk != id.Kind {
		return &planererr.MalformedModule{
			Name:   id.Name,
			Reason: fmt.Sprintf("details tag %s disagrees with id kind %s", dk, id.Kind),
		}
	}
	switch id.Kind {
	case SwiftPrebuiltExternal:
		if m.Details.SwiftPrebuilt.CompiledModulePath == "" {
			return &planererr.MalformedModule{Name: id.Name, Reason: "no compiledModulePath"}
		}
	case Clang:
		if m.Details.Clang.ModuleMapPath == "" {
			return &planererr.MalformedModule{Name: id.Name, Reason: "no moduleMapPath"}
		}
	}
	return nil
}
