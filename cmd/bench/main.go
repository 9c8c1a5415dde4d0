// Command bench is the external benchmark driver the core spec
// deliberately excludes. It inserts a sequential workload into a
// btree.BTree and, for comparison, into a pebble-backed
// baseline.Pebble, then reports the cumulative latency after each
// insert as a CSV and a PNG chart.
//
// None of this lives in the core packages: process-wide allocator
// selection, wall-clock/CPU-clock stopwatch utilities, and this
// command-line driver are the external collaborators spec.md §1 calls
// out as out of scope for the store itself.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/arborkv/bptree/btree"
	"github.com/arborkv/bptree/internal/baseline"
	"github.com/arborkv/bptree/internal/stopwatch"
	"github.com/arborkv/bptree/node"
)

func main() {
	b := flag.Int("b", 64, "B+tree branching parameter")
	n := flag.Int("n", 10000, "number of keys to insert")
	outDir := flag.String("out", "bench-results", "directory for CSV and chart output")
	flag.Parse()

	if err := run(*b, *n, *outDir); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
}

type sample struct {
	structure string
	opIndex   int
	latencyNs int64
}

func run(b, n int, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	samples, err := benchBTree(b, n, outDir)
	if err != nil {
		return err
	}

	pebbleSamples, err := benchPebble(n, outDir)
	if err != nil {
		return err
	}
	samples = append(samples, pebbleSamples...)

	if err := writeCSV(filepath.Join(outDir, "results.csv"), samples); err != nil {
		return err
	}
	if err := writeChart(filepath.Join(outDir, "latency.png"), samples); err != nil {
		return err
	}

	var mem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&mem)
	fmt.Printf("done: %d samples, heap alloc %d MB, heap objects %d\n",
		len(samples), mem.Alloc/1024/1024, mem.HeapObjects)
	return nil
}

func benchBTree(b, n int, outDir string) ([]sample, error) {
	tree, err := btree.NewBuilder().
		Path(filepath.Join(outDir, "bench.db")).
		BParameter(b).
		Build()
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	sw := stopwatch.New()
	samples := make([]sample, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("k%08d", i)
		sw.Start()
		err := tree.Insert(node.KeyValuePair{Key: key, Value: key})
		sw.Stop()
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample{structure: "btree", opIndex: i, latencyNs: sw.Total().Nanoseconds()})
	}
	return samples, nil
}

func benchPebble(n int, outDir string) ([]sample, error) {
	store, err := baseline.OpenPebble(filepath.Join(outDir, "bench.pebble"))
	if err != nil {
		return nil, err
	}
	defer store.Close()

	sw := stopwatch.New()
	samples := make([]sample, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("k%08d", i)
		sw.Start()
		err := store.Insert(key, key)
		sw.Stop()
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample{structure: "pebble", opIndex: i, latencyNs: sw.Total().Nanoseconds()})
	}
	return samples, nil
}

func writeCSV(path string, samples []sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Structure", "OpIndex", "CumulativeLatencyNs"}); err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.Write([]string{
			s.structure,
			strconv.Itoa(s.opIndex),
			strconv.FormatInt(s.latencyNs, 10),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeChart(path string, samples []sample) error {
	byStructure := map[string]plotter.XYs{}
	for _, s := range samples {
		byStructure[s.structure] = append(byStructure[s.structure], struct{ X, Y float64 }{
			X: float64(s.opIndex),
			Y: float64(s.latencyNs) / 1e6, // ms
		})
	}

	p := plot.New()
	p.Title.Text = "Cumulative insert latency"
	p.X.Label.Text = "operation index"
	p.Y.Label.Text = "cumulative latency (ms)"

	for _, structure := range []string{"btree", "pebble"} {
		xys, ok := byStructure[structure]
		if !ok {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(structure, line)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
