// Package protocol gates the scanner's self-reported protocol version
// against the range this planner knows how to consume, the kind of
// forward-compatibility guard a long-lived driver/scanner pair needs even
// though the distilled specification is silent on it.
package protocol

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-modplan/internal/planererr"
)

// SupportedRange is the constraint this planner's decoding and merge logic
// was written against. A scanner reporting a version outside this range
// may have renamed or restructured fields this module does not know
// about, so trusting its JSON would be unsound.
const SupportedRange = ">=1.0.0, <2.0.0"

// constraint is parsed lazily rather than at package init so a malformed
// SupportedRange (which would only happen from hand-editing this file)
// surfaces as a normal error instead of a panic during import.
func constraint() (*semver.Constraints, error) {
	return semver.NewConstraint(SupportedRange)
}

// CheckVersion verifies that reported (the scanner's self-advertised
// protocol version string) satisfies SupportedRange. A scanner reporting
// an incompatible version is treated as a scanner-class failure: the
// planner cannot safely proceed, but the cause is a version mismatch
// rather than a non-zero exit code, so the message says so explicitly.
func CheckVersion(reported string) error {
	v, err := semver.NewVersion(reported)
	if err != nil {
		return &planererr.ScannerFailure{
			ExitCode: -1,
			Stderr:   fmt.Sprintf("scanner reported an unparseable protocol version %q: %v", reported, err),
		}
	}
	c, err := constraint()
	if err != nil {
		return fmt.Errorf("internal error: invalid supported-range constraint %q: %w", SupportedRange, err)
	}
	if !c.Check(v) {
		return &planererr.ScannerFailure{
			ExitCode: -1,
			Stderr:   fmt.Sprintf("scanner protocol version %s is not in the supported range %s", v, SupportedRange),
		}
	}
	return nil
}

// Newer reports whether a is a strictly newer version than b. Used by the
// oracle to decide whether module info from a newer scan should be
// preferred when both claim to describe the same module name.
func Newer(a, b string) (bool, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false, err
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false, err
	}
	return va.GreaterThan(vb), nil
}
