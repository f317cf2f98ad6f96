// Package pcmpath implements the deterministic mapping from a Clang
// module's logical path and PCM-args vector to its target-encoded output
// path (§4.G). The hash must be stable across runs on the same
// architecture because it appears in filenames visible to downstream
// caches; a 64-bit FNV-1a hash (stdlib hash/fnv) gives that stability without the cost of a cryptographic hash this use case
// does not need.
package pcmpath

import (
	"hash/fnv"
	"path/filepath"
	"strconv"
	"strings"
)

// Encode computes the target-encoded path for a Clang module compiled
// under pcmArgs: basename(modulePath) gets pcmArgs' stable hash appended,
// and the first occurrence of the original basename in modulePath is
// textually replaced by the new one.
func Encode(modulePath string, pcmArgs []string) string {
	ext := filepath.Ext(modulePath)
	base := filepath.Base(modulePath)
	baseName := strings.TrimSuffix(base, ext)

	h := stableHash(pcmArgs)
	newBase := baseName + h

	idx := strings.Index(modulePath, baseName)
	if idx < 0 {
		// baseName is always a substring of its own path's base component,
		// so this cannot happen for well-formed input; fall back to
		// appending the hash to the whole path rather than panicking.
		return modulePath + h
	}
	return modulePath[:idx] + newBase + modulePath[idx+len(baseName):]
}

// stableHash returns the decimal string form of the 64-bit FNV-1a hash of
// pcmArgs, each argument followed by a byte that cannot appear inside a
// single flag (NUL), so that ["-a", "bc"] and ["-ab", "c"]-style collisions
// between adjacent arguments are not possible.
func stableHash(pcmArgs []string) string {
	h := fnv.New64a()
	for _, arg := range pcmArgs {
		_, _ = h.Write([]byte(arg))
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 10)
}
