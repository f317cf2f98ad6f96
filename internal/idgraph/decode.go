package idgraph

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// wireID mirrors the scanner's one-key-of-four id encoding, e.g.
// {"swift": "Main"} or {"clang": "CA"}.
type wireID struct {
	Swift                 *string `json:"swift,omitempty"`
	SwiftPlaceholder      *string `json:"swiftPlaceholder,omitempty"`
	SwiftPrebuiltExternal *string `json:"swiftPrebuiltExternal,omitempty"`
	Clang                 *string `json:"clang,omitempty"`
}

func (w wireID) toModuleID() (ModuleID, error) {
	switch {
	case w.Swift != nil:
		return ModuleID{Kind: Swift, Name: *w.Swift}, nil
	case w.SwiftPlaceholder != nil:
		return ModuleID{Kind: SwiftPlaceholder, Name: *w.SwiftPlaceholder}, nil
	case w.SwiftPrebuiltExternal != nil:
		return ModuleID{Kind: SwiftPrebuiltExternal, Name: *w.SwiftPrebuiltExternal}, nil
	case w.Clang != nil:
		return ModuleID{Kind: Clang, Name: *w.Clang}, nil
	default:
		return ModuleID{}, fmt.Errorf("module id has no recognized kind key")
	}
}

func idToWire(id ModuleID) wireID {
	switch id.Kind {
	case Swift:
		return wireID{Swift: &id.Name}
	case SwiftPlaceholder:
		return wireID{SwiftPlaceholder: &id.Name}
	case SwiftPrebuiltExternal:
		return wireID{SwiftPrebuiltExternal: &id.Name}
	case Clang:
		return wireID{Clang: &id.Name}
	default:
		return wireID{}
	}
}

type wireSwiftDetails struct {
	ModuleInterfacePath        string   `json:"moduleInterfacePath,omitempty"`
	CompiledModuleCandidates   []string `json:"compiledModuleCandidates,omitempty"`
	ExplicitCompiledModulePath string   `json:"explicitCompiledModulePath,omitempty"`
	BridgingHeaderPath         string   `json:"bridgingHeaderPath,omitempty"`
	BridgingSourceFiles        []string `json:"bridgingSourceFiles,omitempty"`
	CommandLine                []string `json:"commandLine,omitempty"`
	ExtraPcmArgs               []string `json:"extraPcmArgs"`
}

type wirePlaceholderDetails struct {
	ModuleDocPath        string `json:"moduleDocPath,omitempty"`
	ModuleSourceInfoPath string `json:"moduleSourceInfoPath,omitempty"`
}

type wirePrebuiltDetails struct {
	CompiledModulePath   string   `json:"compiledModulePath"`
	ModuleDocPath        string   `json:"moduleDocPath,omitempty"`
	ModuleSourceInfoPath string   `json:"moduleSourceInfoPath,omitempty"`
	ExtraPcmArgs         []string `json:"extraPcmArgs,omitempty"`
}

type wireClangDetails struct {
	ModuleMapPath string   `json:"moduleMapPath"`
	ContextHash   string   `json:"contextHash,omitempty"`
	CommandLine   []string `json:"commandLine,omitempty"`
}

type wireDetails struct {
	Swift            *wireSwiftDetails       `json:"swift,omitempty"`
	SwiftPlaceholder *wirePlaceholderDetails `json:"swiftPlaceholder,omitempty"`
	SwiftPrebuilt    *wirePrebuiltDetails    `json:"swiftPrebuiltExternal,omitempty"`
	Clang            *wireClangDetails       `json:"clang,omitempty"`
}

type wireModuleInfo struct {
	ModulePath         string     `json:"modulePath"`
	SourceFiles        []string   `json:"sourceFiles,omitempty"`
	DirectDependencies []wireID   `json:"directDependencies,omitempty"`
	Details            wireDetails `json:"details"`
}

// wireEntry is the two-element [id, info] tuple the scanner emits per
// module. encoding/json cannot unmarshal a fixed-shape tuple directly into
// a struct, so it is decoded as a raw two-element array.
type wireEntry [2]json.RawMessage

type wireGraph struct {
	MainModuleName string      `json:"mainModuleName"`
	Modules        []wireEntry `json:"modules"`
}

// Decode parses the scanner's JSON schema (§6) into a Graph. Unknown keys
// in the top-level object or in "details" are rejected, matching "Unknown
// keys are rejected" in §6.
func Decode(data []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var wg wireGraph
	if err := dec.Decode(&wg); err != nil {
		return nil, fmt.Errorf("decoding scanner output: %w", err)
	}

	g := New(wg.MainModuleName)
	for _, entry := range wg.Modules {
		var wid wireID
		idDec := json.NewDecoder(bytes.NewReader(entry[0]))
		idDec.DisallowUnknownFields()
		if err := idDec.Decode(&wid); err != nil {
			return nil, fmt.Errorf("decoding module id: %w", err)
		}
		id, err := wid.toModuleID()
		if err != nil {
			return nil, err
		}

		var winfo wireModuleInfo
		infoDec := json.NewDecoder(bytes.NewReader(entry[1]))
		infoDec.DisallowUnknownFields()
		if err := infoDec.Decode(&winfo); err != nil {
			return nil, fmt.Errorf("decoding module info for %s: %w", id.Name, err)
		}

		info, err := decodeModuleInfo(id, winfo)
		if err != nil {
			return nil, err
		}
		g.Set(id, info)
	}
	return g, nil
}

func decodeModuleInfo(id ModuleID, w wireModuleInfo) (ModuleInfo, error) {
	deps := make([]ModuleID, 0, len(w.DirectDependencies))
	for _, wd := range w.DirectDependencies {
		did, err := wd.toModuleID()
		if err != nil {
			return ModuleInfo{}, err
		}
		deps = append(deps, did)
	}

	details, err := decodeDetails(id, w.Details)
	if err != nil {
		return ModuleInfo{}, err
	}

	info := ModuleInfo{
		ModulePath:         w.ModulePath,
		SourceFiles:        w.SourceFiles,
		DirectDependencies: deps,
		Details:            details,
	}
	if err := info.Validate(id); err != nil {
		return ModuleInfo{}, err
	}
	return info, nil
}

func decodeDetails(id ModuleID, w wireDetails) (Details, error) {
	switch id.Kind {
	case Swift:
		if w.Swift == nil {
			return Details{}, malformedDetails(id, "swift")
		}
		return Details{Swift: &SwiftDetails{
			ModuleInterfacePath:        w.Swift.ModuleInterfacePath,
			CompiledModuleCandidates:   w.Swift.CompiledModuleCandidates,
			ExplicitCompiledModulePath: w.Swift.ExplicitCompiledModulePath,
			BridgingHeaderPath:         w.Swift.BridgingHeaderPath,
			BridgingSourceFiles:        w.Swift.BridgingSourceFiles,
			CommandLine:                w.Swift.CommandLine,
			ExtraPcmArgs:               w.Swift.ExtraPcmArgs,
			HasExtraPcmArgs:            w.Swift.ExtraPcmArgs != nil,
		}}, nil
	case SwiftPlaceholder:
		if w.SwiftPlaceholder == nil {
			return Details{}, malformedDetails(id, "swiftPlaceholder")
		}
		return Details{SwiftPlaceholder: &SwiftPlaceholderDetails{
			ModuleDocPath:        w.SwiftPlaceholder.ModuleDocPath,
			ModuleSourceInfoPath: w.SwiftPlaceholder.ModuleSourceInfoPath,
		}}, nil
	case SwiftPrebuiltExternal:
		if w.SwiftPrebuilt == nil {
			return Details{}, malformedDetails(id, "swiftPrebuiltExternal")
		}
		return Details{SwiftPrebuilt: &SwiftPrebuiltExternalDetails{
			CompiledModulePath:   w.SwiftPrebuilt.CompiledModulePath,
			ModuleDocPath:        w.SwiftPrebuilt.ModuleDocPath,
			ModuleSourceInfoPath: w.SwiftPrebuilt.ModuleSourceInfoPath,
			ExtraPcmArgs:         w.SwiftPrebuilt.ExtraPcmArgs,
			HasExtraPcmArgs:      w.SwiftPrebuilt.ExtraPcmArgs != nil,
		}}, nil
	case Clang:
		if w.Clang == nil {
			return Details{}, malformedDetails(id, "clang")
		}
		return Details{Clang: &ClangDetails{
			ModuleMapPath: w.Clang.ModuleMapPath,
			ContextHash:   w.Clang.ContextHash,
			CommandLine:   w.Clang.CommandLine,
		}}, nil
	default:
		return Details{}, fmt.Errorf("unknown module kind for %s", id.Name)
	}
}

func malformedDetails(id ModuleID, kind string) error {
	return &planererr.MalformedModule{Name: id.Name, Reason: "no " + kind + " details in scan output"}
}
