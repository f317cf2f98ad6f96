package oracle

import (
	"testing"

	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
)

func TestMergeIn_NewerScanOverwritesOlder(t *testing.T) {
	id := idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: "Dep"}
	o := New()

	old := idgraph.New("Dep")
	old.Set(id, idgraph.ModuleInfo{
		ModulePath: "/v1/Dep.swiftmodule",
		Details:    idgraph.Details{SwiftPrebuilt: &idgraph.SwiftPrebuiltExternalDetails{CompiledModulePath: "/v1/Dep.swiftmodule"}},
	})
	o.MergeIn(old, "1.0.0")

	newer := idgraph.New("Dep")
	newer.Set(id, idgraph.ModuleInfo{
		ModulePath: "/v2/Dep.swiftmodule",
		Details:    idgraph.Details{SwiftPrebuilt: &idgraph.SwiftPrebuiltExternalDetails{CompiledModulePath: "/v2/Dep.swiftmodule"}},
	})
	o.MergeIn(newer, "1.1.0")

	info, ok := o.GetModuleInfo(id)
	if !ok {
		t.Fatalf("expected module info present")
	}
	if info.ModulePath != "/v2/Dep.swiftmodule" {
		t.Fatalf("expected newer scan to win, got %q", info.ModulePath)
	}
}

func TestMergeIn_StaleScanIsDropped(t *testing.T) {
	id := idgraph.ModuleID{Kind: idgraph.Swift, Name: "Dep"}
	o := New()

	fresh := idgraph.New("Dep")
	fresh.Set(id, idgraph.ModuleInfo{
		ModulePath: "/v2/Dep.swiftmodule",
		Details:    idgraph.Details{Swift: &idgraph.SwiftDetails{ModuleInterfacePath: "Dep.swiftinterface", ExtraPcmArgs: []string{}, HasExtraPcmArgs: true}},
	})
	o.MergeIn(fresh, "1.1.0")

	stale := idgraph.New("Dep")
	stale.Set(id, idgraph.ModuleInfo{
		ModulePath: "/v1/Dep.swiftmodule",
		Details:    idgraph.Details{Swift: &idgraph.SwiftDetails{ModuleInterfacePath: "Dep.swiftinterface", ExtraPcmArgs: []string{}, HasExtraPcmArgs: true}},
	})
	o.MergeIn(stale, "1.0.0")

	info, ok := o.GetModuleInfo(id)
	if !ok {
		t.Fatalf("expected module info present")
	}
	if info.ModulePath != "/v2/Dep.swiftmodule" {
		t.Fatalf("expected stale older-version scan to be dropped, got %q", info.ModulePath)
	}
}

func TestMergeIn_EmptyVersionSkipsStalenessCheck(t *testing.T) {
	id := idgraph.ModuleID{Kind: idgraph.SwiftPrebuiltExternal, Name: "Dep"}
	o := New()

	first := idgraph.New("Dep")
	first.Set(id, idgraph.ModuleInfo{
		ModulePath: "/v1/Dep.swiftmodule",
		Details:    idgraph.Details{SwiftPrebuilt: &idgraph.SwiftPrebuiltExternalDetails{CompiledModulePath: "/v1/Dep.swiftmodule"}},
	})
	o.MergeIn(first, "")

	second := idgraph.New("Dep")
	second.Set(id, idgraph.ModuleInfo{
		ModulePath: "/v2/Dep.swiftmodule",
		Details:    idgraph.Details{SwiftPrebuilt: &idgraph.SwiftPrebuiltExternalDetails{CompiledModulePath: "/v2/Dep.swiftmodule"}},
	})
	o.MergeIn(second, "")

	info, ok := o.GetModuleInfo(id)
	if !ok {
		t.Fatalf("expected module info present")
	}
	if info.ModulePath != "/v2/Dep.swiftmodule" {
		t.Fatalf("expected second merge to apply when version is unreported, got %q", info.ModulePath)
	}
}
