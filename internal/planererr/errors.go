// Package planererr defines the typed error kinds surfaced by the explicit
// module build planner. Each kind is a distinct struct with an Error()
// method rather than an opaque fmt.Errorf-wrapped sentinel: callers that
// need to branch on kind use errors.As.
package planererr

import "fmt"

// MissingModule reports that a graph lookup of a referenced module id failed.
type MissingModule struct {
	Name string
}

func (e *MissingModule) Error() string {
	return fmt.Sprintf("missing module: %s", e.Name)
}

// MalformedModule reports that a module's details tag disagreed with its id
// kind, or that a required field was absent from its details.
type MalformedModule struct {
	Name   string
	Reason string
}

func (e *MalformedModule) Error() string {
	return fmt.Sprintf("malformed module %s: %s", e.Name, e.Reason)
}

// MissingPcmArgs reports that a Swift (or prebuilt-external) module lacks
// the extraPcmArgs field required for PCM-args computation.
type MissingPcmArgs struct {
	Name string
}

func (e *MissingPcmArgs) Error() string {
	return fmt.Sprintf("module %s has no extraPcmArgs", e.Name)
}

// MissingExternalDependency reports that a placeholder could not be
// resolved from either the client-supplied compiled-path map or the oracle.
type MissingExternalDependency struct {
	Name string
}

func (e *MissingExternalDependency) Error() string {
	return fmt.Sprintf("no external dependency information for module: %s", e.Name)
}

// UnresolvedPlaceholder reports that a placeholder module remained after
// placeholder resolution completed.
type UnresolvedPlaceholder struct {
	Name string
}

func (e *UnresolvedPlaceholder) Error() string {
	return fmt.Sprintf("unresolved placeholder module: %s", e.Name)
}

// ScannerFailure reports that the external scanner subprocess exited with a
// non-zero status.
type ScannerFailure struct {
	ExitCode int
	Stderr   string
}

func (e *ScannerFailure) Error() string {
	return fmt.Sprintf("scanner failed with exit code %d: %s", e.ExitCode, e.Stderr)
}

// UnexpectedKind reports that an invariant-violating module kind appeared
// at a stage that forbids it (e.g. a placeholder surviving into the
// versioned Clang re-scan).
type UnexpectedKind struct {
	Name  string
	Kind  string
	Stage string
}

func (e *UnexpectedKind) Error() string {
	return fmt.Sprintf("unexpected module kind %s for %s during %s", e.Kind, e.Name, e.Stage)
}
