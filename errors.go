package lynxalloc

import "errors"

// ErrOutOfMemory is stored in the heap's error slot when ReallocArray
// detects a size multiplication overflow. Allocation exhaustion itself is
// reported by nil return values, not through this slot.
var ErrOutOfMemory = errors.New("lynxalloc: out of memory")
