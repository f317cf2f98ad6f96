// Package scanner invokes the external dependency-scanner subprocess
// (spec §1: out of scope to implement, but its invocation and decoding is
// squarely in scope for a complete driver). It builds the command line per
// §6, runs it to completion, and decodes its stdout into a Graph.
//
// Cancellation kills the whole process group/tree rather than just the
// direct child, grounded on internal/runtime/asyncio's platform-specific
// split (zerocopy_unix_file.go / zerocopy_windows_file.go): the scanner
// may itself fork helper processes, and a plain context cancellation that
// only signals the immediate child can leave orphans behind.
package scanner

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/orizon-lang/orizon-modplan/internal/idgraph"
	"github.com/orizon-lang/orizon-modplan/internal/pcmscan"
	"github.com/orizon-lang/orizon-modplan/internal/planererr"
	"github.com/orizon-lang/orizon-modplan/internal/protocol"
)

// Invoker runs the scanner subprocess. ToolPath is the scanner binary;
// PrefixFlags are caller-supplied flags prepended to every invocation
// (§6a); ProtocolVersion, when set, is called after each successful run
// and a non-empty version it reports is checked against
// internal/protocol's supported range before the scan result is trusted.
type Invoker struct {
	ToolPath        string
	PrefixFlags     []string
	ProtocolVersion func() (string, error)

	// LastVersion is the protocol version reported by the most recent
	// successful run, if ProtocolVersion was set. The oracle uses it to
	// decide whether a scan's results are newer than what it already has
	// cached for the same module (§11, protocol version gate).
	LastVersion string
}

// ScanModule runs a full scan of the given source files, as the top-level
// driver would when first producing a working graph for a target.
func (inv *Invoker) ScanModule(ctx context.Context, sourceFiles []string, parseStdlib bool) (*idgraph.Graph, error) {
	args := BuildCommandLine(inv.PrefixFlags, sourceFiles, parseStdlib)
	return inv.run(ctx, args)
}

// RescanClangModule implements pcmscan.Rescanner: one re-scan of a single
// Clang module under a specific PCM-args vector (§4.E).
func (inv *Invoker) RescanClangModule(ctx context.Context, clangID idgraph.ModuleID, pcmArgs pcmscan.PcmArgVector) (*idgraph.Graph, error) {
	args := append([]string{}, inv.PrefixFlags...)
	args = append(args, "-frontend", "-scan-dependencies", "-scan-single-clang-module", clangID.Name)
	args = append(args, pcmArgs...)
	return inv.run(ctx, args)
}

func (inv *Invoker) run(ctx context.Context, args []string) (*idgraph.Graph, error) {
	cmd := exec.Command(inv.ToolPath, args...)
	setProcAttr(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &planererr.ScannerFailure{ExitCode: -1, Stderr: err.Error()}
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	var runErr error
	select {
	case runErr = <-waitDone:
	case <-ctx.Done():
		// Cancellation propagates by terminating the whole process-group
		// tree, not just the direct child (§5), since the scanner may
		// itself spawn helper processes. The in-progress graph is
		// discarded regardless of what, if anything, reached stdout.
		killProcessGroup(cmd)
		<-waitDone
		return nil, ctx.Err()
	}

	if runErr != nil {
		exitCode := -1
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return nil, &planererr.ScannerFailure{ExitCode: exitCode, Stderr: stderr.String()}
	}

	if inv.ProtocolVersion != nil {
		reported, err := inv.ProtocolVersion()
		if err != nil {
			return nil, err
		}
		if reported != "" {
			if err := protocol.CheckVersion(reported); err != nil {
				return nil, err
			}
			inv.LastVersion = reported
		}
	}

	return idgraph.Decode(stdout.Bytes())
}

// BuildCommandLine assembles the scanner command line per §6c/d: common
// frontend options (bridging-header mode = precompiled, dependency-graph
// use = dependencyScan), the objc-attr flag when the caller reports
// -parse-stdlib via parseStdlib (prefixFlags are not inspected for it),
// then the input source paths.
func BuildCommandLine(prefixFlags, sourceFiles []string, parseStdlib bool) []string {
	args := append([]string{}, prefixFlags...)
	args = append(args,
		"-frontend", "-scan-dependencies",
		"-bridging-header-mode", "precompiled",
		"-dependency-graph-use", "dependencyScan",
	)
	if parseStdlib {
		args = append(args, "-disable-objc-attr-requires-foundation-module")
	}
	args = append(args, sourceFiles...)
	return args
}

var _ pcmscan.Rescanner = (*Invoker)(nil)
