package placeholder

import (
	"testing"

	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
	"github.com/orizon-lang/orizon-modplan/internal/oracle"
)

// S3: placeholder with client path. Scan of Main produces
// SwiftPlaceholder(Dep); externalTargetModulePathMap maps it to a promised
// path; the oracle holds Swift(Dep) depending on Clang(CX). After
// resolution, modules contains SwiftPrebuiltExternal(Dep) with the
// promised path, Clang(CX), and no placeholder.
func TestResolve_TargetPlaceholderWithClientPath(t *testing.T) {
	placeholderID := idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: "Dep"}
	mainID := idgraph.ModuleID{Kind: idgraph.Swift, Name: "Main"}

	g := idgraph.New("Main")
	g.Set(mainID, idgraph.ModuleInfo{
		DirectDependencies: []idgraph.ModuleID{placeholderID},
		Details: idgraph.Details{Swift: &idgraph.SwiftDetails{
			ModuleInterfacePath: "Main.swiftinterface",
			ExtraPcmArgs:        []string{"-target", "t1"},
			HasExtraPcmArgs:     true,
		}},
	})
	g.Set(placeholderID, idgraph.ModuleInfo{Details: idgraph.Details{SwiftPlaceholder: &idgraph.SwiftPlaceholderDetails{}}})

	o := oracle.New()
	clangID := idgraph.ModuleID{Kind: idgraph.Clang, Name: "CX"}
	depSwiftID := idgraph.ModuleID{Kind: idgraph.Swift, Name: "Dep"}
	scan := idgraph.New("Dep")
	scan.Set(depSwiftID, idgraph.ModuleInfo{
		DirectDependencies: []idgraph.ModuleID{clangID},
		Details: idgraph.Details{Swift: &idgraph.SwiftDetails{
			ModuleInterfacePath: "Dep.swiftinterface",
			ExtraPcmArgs:        []string{"-target", "t1"},
			HasExtraPcmArgs:     true,
		}},
	})
	scan.Set(clangID, idgraph.ModuleInfo{Details: idgraph.Details{Clang: &idgraph.ClangDetails{ModuleMapPath: "/CX/module.modulemap"}}})
	o.MergeIn(scan, "")

	artifacts := ExternalBuildArtifacts{
		TargetModulePath: map[idgraph.ModuleID]string{placeholderID: "/build/Dep.swiftmodule"},
	}

	resolved, err := Resolve(g, o, artifacts)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(resolved.Placeholders()) != 0 {
		t.Fatalf("expected no placeholders to remain")
	}
	prebuiltID := idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: "Dep"}
	info, err := resolved.ModuleInfo(prebuiltID)
	if err != nil {
		t.Fatalf("expected SwiftPrebuiltExternal(Dep): %v", err)
	}
	if info.ModulePath != "/build/Dep.swiftmodule" {
		t.Fatalf("expected promised path, got %q", info.ModulePath)
	}
	if !resolved.Has(clangID) {
		t.Fatalf("expected Clang(CX) to be transitively imported")
	}
	mainInfo, _ := resolved.ModuleInfo(mainID)
	if mainInfo.DirectDependencies[0] != prebuiltID {
		t.Fatalf("expected Main's dependency edge rewritten to %v, got %v", prebuiltID, mainInfo.DirectDependencies[0])
	}
}

func TestResolve_NonTargetPlaceholderFromOracle(t *testing.T) {
	placeholderID := idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: "Dep"}
	mainID := idgraph.ModuleID{Kind: idgraph.Swift, Name: "Main"}

	g := idgraph.New("Main")
	g.Set(mainID, idgraph.ModuleInfo{
		DirectDependencies: []idgraph.ModuleID{placeholderID},
		Details: idgraph.Details{Swift: &idgraph.SwiftDetails{
			ModuleInterfacePath: "Main.swiftinterface", ExtraPcmArgs: []string{}, HasExtraPcmArgs: true,
		}},
	})
	g.Set(placeholderID, idgraph.ModuleInfo{Details: idgraph.Details{SwiftPlaceholder: &idgraph.SwiftPlaceholderDetails{}}})

	o := oracle.New()
	depID := idgraph.ModuleID{Kind: idgraph.Swift, Name: "Dep"}
	scan := idgraph.New("Dep")
	scan.Set(depID, idgraph.ModuleInfo{
		ModulePath: "/oracle/Dep.swiftmodule",
		Details: idgraph.Details{Swift: &idgraph.SwiftDetails{
			ModuleInterfacePath: "Dep.swiftinterface", ExtraPcmArgs: []string{}, HasExtraPcmArgs: true,
		}},
	})
	o.MergeIn(scan, "")

	resolved, err := Resolve(g, o, ExternalBuildArtifacts{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.Has(depID) {
		t.Fatalf("expected Swift(Dep) imported from oracle")
	}
}

func TestResolve_MissingExternalDependency(t *testing.T) {
	placeholderID := idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: "Dep"}
	mainID := idgraph.ModuleID{Kind: idgraph.Swift, Name: "Main"}
	g := idgraph.New("Main")
	g.Set(mainID, idgraph.ModuleInfo{
		DirectDependencies: []idgraph.ModuleID{placeholderID},
		Details: idgraph.Details{Swift: &idgraph.SwiftDetails{
			ModuleInterfacePath: "Main.swiftinterface", ExtraPcmArgs: []string{}, HasExtraPcmArgs: true,
		}},
	})
	g.Set(placeholderID, idgraph.ModuleInfo{Details: idgraph.Details{SwiftPlaceholder: &idgraph.SwiftPlaceholderDetails{}}})

	o := oracle.New()
	if _, err := Resolve(g, o, ExternalBuildArtifacts{}); err == nil {
		t.Fatalf("expected MissingExternalDependency error")
	}
}
