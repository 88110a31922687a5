//go:build !lynxrelease

package lynxalloc

// debugChecks enables internal invariant checking. Violations abort the
// process; they always indicate allocator corruption, never a recoverable
// condition. Build with -tags lynxrelease to compile the checks out.
const debugChecks = true
