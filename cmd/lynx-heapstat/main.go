// Command lynx-heapstat drives allocation workloads against the lynxalloc
// heap and exposes its state for inspection. It exists to exercise and
// observe the allocator, not to benchmark the Go runtime.
//
// Usage:
//
//	lynx-heapstat [-ops N] [-maxsize B] [-seed S] [-live N]
//	              [-serve addr] [-watch path] [-dump] [-version]
//
// Configuration of the allocator itself comes from the usual environment
// variables (REGION_SIZE, MAX_BLOCK_ALLOC, RESERVE_CAPACITY, MIN_SPLIT_SIZE,
// SCRIBBLE_CHAR).
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"unsafe"

	"github.com/lynx-mem/lynxalloc"
	"github.com/lynx-mem/lynxalloc/internal/cli"
	"github.com/lynx-mem/lynxalloc/internal/heapwatch"
	"github.com/lynx-mem/lynxalloc/internal/statserv"
)

func main() {
	ops := flag.Int("ops", 100000, "number of workload operations")
	maxSize := flag.Int("maxsize", 4096, "largest request size in bytes")
	seed := flag.Int64("seed", 1, "workload PRNG seed")
	live := flag.Int("live", 1024, "target number of live allocations")
	serve := flag.String("serve", "", "serve stats over HTTP/3 on this address")
	watch := flag.String("watch", "", "dump heap state when this file is written")
	dump := flag.Bool("dump", false, "dump heap state after the workload")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		cli.PrintVersion("lynx-heapstat", false)
		return
	}

	heap := lynxalloc.Default()

	var watcher *heapwatch.Watcher
	if *watch != "" {
		var err error
		watcher, err = heapwatch.New(*watch, func() {
			heap.DumpDebugInfo(os.Stderr)
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "lynx-heapstat: watch:", err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	runWorkload(heap, *ops, *maxSize, *live, *seed)

	if *dump {
		heap.DumpDebugInfo(os.Stdout)
	}
	printCounters(heap.Counters())

	if *serve != "" {
		tlsCfg, err := statserv.DevTLS("localhost", "127.0.0.1")
		if err != nil {
			fmt.Fprintln(os.Stderr, "lynx-heapstat: tls:", err)
			os.Exit(1)
		}
		srv := statserv.NewServer(*serve, tlsCfg, heap)
		addr, err := srv.Start()
		if err != nil {
			fmt.Fprintln(os.Stderr, "lynx-heapstat: serve:", err)
			os.Exit(1)
		}
		fmt.Printf("serving heap stats on https://%s (h3)\n", addr)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		if err := srv.Stop(); err != nil {
			fmt.Fprintln(os.Stderr, "lynx-heapstat: serve:", err)
			os.Exit(1)
		}
	}
}

// runWorkload performs a mixed allocate/free/resize sequence. Every payload
// is stamped and verified on free, so a corrupted block turns into a visible
// failure rather than silent misbehavior.
func runWorkload(heap *lynxalloc.Heap, ops, maxSize, targetLive int, seed int64) {
	rng := rand.New(rand.NewSource(seed))

	type allocation struct {
		ptr   unsafe.Pointer
		size  int
		stamp byte
	}
	var livePtrs []allocation

	fill := func(a allocation) {
		s := unsafe.Slice((*byte)(a.ptr), a.size)
		for i := range s {
			s[i] = a.stamp
		}
	}
	verify := func(a allocation) {
		s := unsafe.Slice((*byte)(a.ptr), a.size)
		for i := range s {
			if s[i] != a.stamp {
				fmt.Fprintf(os.Stderr, "lynx-heapstat: payload corrupt at %p+%d\n", a.ptr, i)
				os.Exit(1)
			}
		}
	}

	for op := 0; op < ops; op++ {
		switch {
		case len(livePtrs) < targetLive && rng.Intn(3) != 0:
			size := 1 + rng.Intn(maxSize)
			ptr := heap.Alloc(uintptr(size))
			if ptr == nil {
				fmt.Fprintln(os.Stderr, "lynx-heapstat: allocation failed")
				os.Exit(1)
			}
			a := allocation{ptr: ptr, size: size, stamp: byte(op)}
			fill(a)
			livePtrs = append(livePtrs, a)
		case len(livePtrs) > 0 && rng.Intn(4) == 0:
			i := rng.Intn(len(livePtrs))
			a := livePtrs[i]
			verify(a)
			newSize := 1 + rng.Intn(maxSize)
			ptr := heap.Realloc(a.ptr, uintptr(newSize))
			if ptr == nil {
				fmt.Fprintln(os.Stderr, "lynx-heapstat: realloc failed")
				os.Exit(1)
			}
			a = allocation{ptr: ptr, size: newSize, stamp: a.stamp}
			fill(a)
			livePtrs[i] = a
		case len(livePtrs) > 0:
			i := rng.Intn(len(livePtrs))
			verify(livePtrs[i])
			heap.Free(livePtrs[i].ptr)
			livePtrs[i] = livePtrs[len(livePtrs)-1]
			livePtrs = livePtrs[:len(livePtrs)-1]
		}
	}
	for _, a := range livePtrs {
		verify(a)
		heap.Free(a.ptr)
	}
}

func printCounters(c lynxalloc.Counters) {
	fmt.Printf("regions:      %d mapped, %d reclaimed\n", c.RegionAllocs, c.RegionFrees)
	fmt.Printf("small blocks: %d allocated, %d freed\n", c.TotalAllocs, c.TotalFrees)
	fmt.Printf("large blocks: %d allocated, %d freed\n", c.LargeBlockAllocs, c.LargeBlockFrees)
	fmt.Printf("bytes:        %d used, %d unused\n", c.BytesUsed, c.BytesUnused)
	if c.CheckAmount != 0 {
		fmt.Printf("search:       %d probes over %d searches (avg %d)\n",
			c.BlocksChecked, c.CheckAmount, c.BlocksChecked/c.CheckAmount)
	}
	fmt.Printf("peak util:    %.2f\n", c.PeakUtilization)
}
