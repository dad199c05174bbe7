//go:build test

package mem

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"testing"

	"github.com/bastiangx/listpick/internal/logger"
	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var testQueries = []string{
	"a", "al", "alb", "alba",
	"u", "un", "uni", "unit", "united",
	"k", "ki", "kin", "king", "kingdom",
	"s", "st", "sta", "stat", "states",
	"uk", "usa", "ia", "land", "zz",
}

// generateItems builds n labels with plenty of shared tokens.
func generateItems(n int) []picker.Item {
	words := []string{"united", "kingdom", "states", "republic", "island", "north", "south", "land"}
	items := make([]picker.Item, n)
	for i := range items {
		label := fmt.Sprintf("%s %s %d", words[i%len(words)], words[(i/len(words))%len(words)], i)
		items[i] = picker.Item{Label: label, Value: fmt.Sprintf("v%d", i)}
	}
	return items
}

func TestMemoryLeakAttachCycles(t *testing.T) {
	iterations := []int{10, 50, 100}

	for _, iterCount := range iterations {
		t.Run(fmt.Sprintf("cycles_%d", iterCount), func(t *testing.T) {
			runAttachCycleTest(t, iterCount, generateItems(2000))
		})
	}
}

func TestMemoryLeakConcurrentFilter(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 1000},
		{workers: 2, iterationsPerWorker: 500},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentFilterTest(t, config.workers, config.iterationsPerWorker)
		})
	}
}

func runAttachCycleTest(t *testing.T, cycles int, items []picker.Item) {
	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	for i := 0; i < cycles; i++ {
		cfg := picker.DefaultConfig()
		if i%2 == 1 {
			cfg.Mode = picker.ModeBuffered
		}
		p := picker.Attach(items, -1, cfg, picker.WithLogger(logger.Discard()))
		for _, q := range testQueries {
			p.Input(q)
			_ = p.Filter(q)
		}
		p.Rebuild(items[:len(items)/2], 0)
		p.Detach()
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	goroutineDelta := finalGoroutines - baselineGoroutines

	t.Logf("cycles=%d options=%d mem_delta=%d bytes goroutine_delta=%d",
		cycles, len(items), memDelta, goroutineDelta)

	if memDelta > 8*1024*1024 {
		t.Errorf("detached pickers still hold memory: %d bytes", memDelta)
	}

	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentFilterTest(t *testing.T, workers, iterationsPerWorker int) {
	memFile, err := os.Create("concurrent_memory.prof")
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer func() {
		memFile.Close()
		os.Remove("concurrent_memory.prof")
	}()

	p := picker.Attach(generateItems(5000), -1, picker.DefaultConfig(), picker.WithLogger(logger.Discard()))
	defer p.Detach()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var g errgroup.Group
	var totalOps atomic.Int64

	for worker := 0; worker < workers; worker++ {
		g.Go(func() error {
			for iter := 0; iter < iterationsPerWorker; iter++ {
				q := testQueries[iter%len(testQueries)]
				_ = p.Filter(q)
				_, _ = p.Resolve(q)
				totalOps.Add(2)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("worker failed: %v", err)
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps.Load())

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d cache=%v",
		workers, iterationsPerWorker, totalOps.Load(), memDelta, memPerOp, goroutineDelta, p.Stats())

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}

	// the filter cache is bounded, so retained memory must not grow with ops
	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}

	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
