package lynxalloc

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpDebugInfo(t *testing.T) {
	h, err := New(testConfig)
	if err != nil {
		t.Fatal(err)
	}
	p := h.Alloc(24)
	defer h.Free(p)

	var buf bytes.Buffer
	h.DumpDebugInfo(&buf)
	out := buf.String()

	for _, want := range []string{
		"region_size",
		"max_block_size",
		"regions:",
		"free list:",
		"counters:",
		"total_allocs",
		"peak util:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "status: used") || !strings.Contains(out, "status: free") {
		t.Errorf("dump should show both used and free blocks:\n%s", out)
	}
}
