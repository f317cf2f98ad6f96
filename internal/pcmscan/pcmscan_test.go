package pcmscan

import (
	"context"
	"testing"

	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
)

func swiftModule(name string, pcmArgs []string, deps ...idgraph.ModuleID) (idgraph.ModuleID, idgraph.ModuleInfo) {
	return idgraph.ModuleID{Kind: idgraph.Swift, Name: name}, idgraph.ModuleInfo{
		ModulePath:         name + ".swiftmodule",
		DirectDependencies: deps,
		Details: idgraph.Details{Swift: &idgraph.SwiftDetails{
			ModuleInterfacePath: name + ".swiftinterface",
			ExtraPcmArgs:        pcmArgs,
			HasExtraPcmArgs:     true,
		}},
	}
}

func clangModule(name string) (idgraph.ModuleID, idgraph.ModuleInfo) {
	return idgraph.ModuleID{Kind: idgraph.Clang, Name: name}, idgraph.ModuleInfo{
		ModulePath: "/" + name + ".pcm",
		Details:    idgraph.Details{Clang: &idgraph.ClangDetails{ModuleMapPath: "/" + name + "/module.modulemap"}},
	}
}

// S1: leaf Clang module, single target.
func TestComputePathPcmArgs_SingleTarget(t *testing.T) {
	g := idgraph.New("Main")
	caID, caInfo := clangModule("CA")
	g.Set(caID, caInfo)
	mainID, mainInfo := swiftModule("Main", []string{"-target", "t1"}, caID)
	g.Set(mainID, mainInfo)

	set, err := ComputePathPcmArgs(g)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	vecs := set.Vectors(caID)
	if len(vecs) != 1 {
		t.Fatalf("expected exactly one pcm-args vector reaching CA, got %d", len(vecs))
	}
	if vecs[0].key() != (PcmArgVector{"-target", "t1"}).key() {
		t.Fatalf("unexpected vector: %v", vecs[0])
	}
}

// S2: two targets share a Clang module via Main(t1) -> CC and
// Main(t1) -> B(t2) -> CC.
func TestComputePathPcmArgs_TwoTargetsShareModule(t *testing.T) {
	g := idgraph.New("Main")
	ccID, ccInfo := clangModule("CC")
	g.Set(ccID, ccInfo)
	bID, bInfo := swiftModule("B", []string{"-target", "t2"}, ccID)
	g.Set(bID, bInfo)
	mainID, mainInfo := swiftModule("Main", []string{"-target", "t1"}, ccID, bID)
	g.Set(mainID, mainInfo)

	set, err := ComputePathPcmArgs(g)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	vecs := set.Vectors(ccID)
	if len(vecs) != 2 {
		t.Fatalf("expected exactly two pcm-args vectors reaching CC, got %d: %v", len(vecs), vecs)
	}
}

// S4: diamond. Main -> A, B; A -> Clang(C1); B -> Clang(C1); all on the
// same PCM-args, so exactly one vector should reach C1.
func TestComputePathPcmArgs_Diamond(t *testing.T) {
	g := idgraph.New("Main")
	c1ID, c1Info := clangModule("C1")
	g.Set(c1ID, c1Info)
	aID, aInfo := swiftModule("A", []string{"-target", "t1"}, c1ID)
	g.Set(aID, aInfo)
	bID, bInfo := swiftModule("B", []string{"-target", "t1"}, c1ID)
	g.Set(bID, bInfo)
	mainID, mainInfo := swiftModule("Main", []string{"-target", "t1"}, aID, bID)
	g.Set(mainID, mainInfo)

	set, err := ComputePathPcmArgs(g)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	vecs := set.Vectors(c1ID)
	if len(vecs) != 1 {
		t.Fatalf("expected exactly one pcm-args vector reaching C1, got %d: %v", len(vecs), vecs)
	}
}

func TestComputePathPcmArgs_PlaceholderIsFatal(t *testing.T) {
	g := idgraph.New("Main")
	placeholderID := idgraph.ModuleID{Kind: idgraph.SwiftPlaceholder, Name: "Dep"}
	g.Set(placeholderID, idgraph.ModuleInfo{Details: idgraph.Details{SwiftPlaceholder: &idgraph.SwiftPlaceholderDetails{}}})
	mainID, mainInfo := swiftModule("Main", []string{"-target", "t1"}, placeholderID)
	g.Set(mainID, mainInfo)

	if _, err := ComputePathPcmArgs(g); err == nil {
		t.Fatalf("expected UnexpectedKind error for surviving placeholder")
	}
}

func TestRun_MergesRescannedDependenciesBack(t *testing.T) {
	g := idgraph.New("Main")
	caID, caInfo := clangModule("CA")
	g.Set(caID, caInfo)
	mainID, mainInfo := swiftModule("Main", []string{"-target", "t1"}, caID)
	g.Set(mainID, mainInfo)

	cbID, cbInfo := clangModule("CB")
	rescanCount := 0
	rescanner := RescannerFunc(func(ctx context.Context, clangID idgraph.ModuleID, pcmArgs PcmArgVector) (*idgraph.Graph, error) {
		rescanCount++
		sub := idgraph.New(clangID.Name)
		augmented := caInfo
		augmented.DirectDependencies = []idgraph.ModuleID{cbID}
		sub.Set(caID, augmented)
		sub.Set(cbID, cbInfo)
		return sub, nil
	})

	if err := Run(context.Background(), g, rescanner); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rescanCount != 1 {
		t.Fatalf("expected exactly one rescan call, got %d", rescanCount)
	}
	if !g.Has(cbID) {
		t.Fatalf("expected CB to be merged back into the working graph")
	}
	merged, _ := g.ModuleInfo(caID)
	if len(merged.DirectDependencies) != 1 || merged.DirectDependencies[0] != cbID {
		t.Fatalf("expected CA's dependencies extended with CB, got %v", merged.DirectDependencies)
	}
}
