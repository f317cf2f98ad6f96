package idgraph

import "encoding/json"

// Encode serializes g back into the scanner's wire schema. It exists
// primarily to let tests exercise "decode ∘ encode is identity up to
// whitespace" and to let the scanner's test doubles produce fixture input
// without hand-writing JSON.
func Encode(g *Graph) ([]byte, error) {
	wg := wireGraph{MainModuleName: g.MainModuleName}
	for id, info := range g.Modules {
		idBytes, err := json.Marshal(idToWire(id))
		if err != nil {
			return nil, err
		}
		infoBytes, err := json.Marshal(encodeModuleInfo(info))
		if err != nil {
			return nil, err
		}
		wg.Modules = append(wg.Modules, wireEntry{idBytes, infoBytes})
	}
	return json.Marshal(wg)
}

func encodeModuleInfo(info ModuleInfo) wireModuleInfo {
	deps := make([]wireID, 0, len(info.DirectDependencies))
	for _, d := range info.DirectDependencies {
		deps = append(deps, idToWire(d))
	}
	w := wireModuleInfo{
		ModulePath:         info.ModulePath,
		SourceFiles:        info.SourceFiles,
		DirectDependencies: deps,
	}
	switch {
	case info.Details.Swift != nil:
		d := info.Details.Swift
		w.Details.Swift = &wireSwiftDetails{
			ModuleInterfacePath:        d.ModuleInterfacePath,
			CompiledModuleCandidates:   d.CompiledModuleCandidates,
			ExplicitCompiledModulePath: d.ExplicitCompiledModulePath,
			BridgingHeaderPath:         d.BridgingHeaderPath,
			BridgingSourceFiles:        d.BridgingSourceFiles,
			CommandLine:                d.CommandLine,
			ExtraPcmArgs:               d.ExtraPcmArgs,
		}
	case info.Details.SwiftPlaceholder != nil:
		d := info.Details.SwiftPlaceholder
		w.Details.SwiftPlaceholder = &wirePlaceholderDetails{
			ModuleDocPath:        d.ModuleDocPath,
			ModuleSourceInfoPath: d.ModuleSourceInfoPath,
		}
	case info.Details.SwiftPrebuilt != nil:
		d := info.Details.SwiftPrebuilt
		w.Details.SwiftPrebuilt = &wirePrebuiltDetails{
			CompiledModulePath:   d.CompiledModulePath,
			ModuleDocPath:        d.ModuleDocPath,
			ModuleSourceInfoPath: d.ModuleSourceInfoPath,
			ExtraPcmArgs:         d.ExtraPcmArgs,
		}
	case info.Details.Clang != nil:
		d := info.Details.Clang
		w.Details.Clang = &wireClangDetails{
			ModuleMapPath: d.ModuleMapPath,
			ContextHash:   d.ContextHash,
			CommandLine:   d.CommandLine,
		}
	}
	return w
}
