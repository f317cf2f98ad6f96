// Command modplan drives the explicit module build planner end to end:
// invoke the scanner, resolve placeholders against the oracle, run the
// versioned Clang re-scan, plan jobs, and write the resulting artifact
// side-files and job list.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orizon-lang/orizon-modplan/internal/artifact"
	"github.com/orizon-lang/orizon-modplan/internal/oracle"
	"github.com/orizon-lang/orizon-modplan/internal/pcmscan"
	"github.com/orizon-lang/orizon-modplan/internal/placeholder"
	"github.com/orizon-lang/orizon-modplan/internal/planner"
	"github.com/orizon-lang/orizon-modplan/internal/scanner"
	"github.com/orizon-lang/orizon-modplan/internal/watch"
)

var (
	version = "0.1.0-alpha"
	commit  = "dev"
)

// osWriter is the production artifact.Writer: plain os.WriteFile. The
// planner itself only depends on the artifact.Writer interface (§13).
type osWriter struct{}

func (osWriter) Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		scannerPath = flag.String("scanner", "", "path to the dependency-scanner binary (required)")
		toolPath    = flag.String("tool", "", "tool path stamped onto every produced job (required)")
		tempDir     = flag.String("temp-dir", os.TempDir(), "directory for artifact side-files")
		outPath     = flag.String("o", "", "path to write the produced job list as JSON (default: stdout)")
		watchMode   = flag.Bool("watch", false, "re-plan whenever a dependency's source file changes")
	)
	flag.Usage = showUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("modplan %s (%s)\n", version, commit)
		return
	}

	sourceFiles := flag.Args()
	if len(sourceFiles) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input source files specified")
		showUsage()
		os.Exit(1)
	}
	if *scannerPath == "" || *toolPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scanner and -tool are required")
		showUsage()
		os.Exit(1)
	}

	inv := &scanner.Invoker{ToolPath: *scannerPath}
	o := oracle.New()

	run := func() (*planner.PlanResult, []string, error) {
		return runOnce(context.Background(), inv, o, sourceFiles, *tempDir, *toolPath)
	}

	if !*watchMode {
		result, _, err := run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := emit(result, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	w, err := watch.New(func() (*planner.PlanResult, []string, error) {
		return run()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	for {
		select {
		case result := <-w.Results():
			if err := emit(result, *outPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// runOnce drives one full plan: scan, resolve placeholders, versioned
// re-scan, and job planning. It returns both the plan and the set of
// paths that plan depends on, for watch mode's re-trigger set.
func runOnce(ctx context.Context, inv *scanner.Invoker, o *oracle.Oracle, sourceFiles []string, tempDir, toolPath string) (*planner.PlanResult, []string, error) {
	g, err := inv.ScanModule(ctx, sourceFiles, false)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := placeholder.Resolve(g, o, placeholder.ExternalBuildArtifacts{})
	if err != nil {
		return nil, nil, err
	}
	o.MergeIn(resolved, inv.LastVersion)

	if err := pcmscan.Run(ctx, resolved, inv); err != nil {
		return nil, nil, err
	}

	p := planner.New(resolved, tempDir, toolPath, osWriter{})
	result, err := p.Plan()
	if err != nil {
		return nil, nil, err
	}

	var watched []string
	for _, info := range resolved.Modules {
		watched = append(watched, info.SourceFiles...)
	}
	for _, j := range result.Jobs {
		for _, in := range j.Inputs {
			watched = append(watched, in.Path)
		}
	}
	return result, watched, nil
}

// jobRecord mirrors §6's produced job schema for JSON output.
type jobRecord struct {
	ModuleName  string       `json:"moduleName"`
	Kind        string       `json:"kind"`
	ToolPath    string       `json:"toolPath"`
	CommandLine []string     `json:"commandLine"`
	Inputs      []fileRecord `json:"inputs"`
	Outputs     []fileRecord `json:"outputs"`
}

type fileRecord struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

func emit(result *planner.PlanResult, outPath string) error {
	records := make([]jobRecord, 0, len(result.Jobs))
	for _, j := range result.Jobs {
		records = append(records, jobRecord{
			ModuleName:  j.ModuleName,
			Kind:        j.Kind.String(),
			ToolPath:    j.ToolPath,
			CommandLine: j.CommandLine,
			Inputs:      toFileRecords(j.Inputs),
			Outputs:     toFileRecords(j.Outputs),
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	return osWriter{}.Write(outPath, data)
}

func toFileRecords(files []planner.File) []fileRecord {
	out := make([]fileRecord, 0, len(files))
	for _, f := range files {
		out = append(out, fileRecord{Path: f.Path, Type: f.Type.String()})
	}
	return out
}

func showUsage() {
	fmt.Fprintln(os.Stderr, "Usage: modplan -scanner <path> -tool <path> [options] <source files...>")
	flag.PrintDefaults()
}

var _ artifact.Writer = osWriter{}
