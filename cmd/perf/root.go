package perf

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/ValentinKolb/dStruct/lib/ds"
	"github.com/fatih/color"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logger.GetLogger("dstruct")

var (
	// PerfCmd runs a parallel workload against every data structure
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the data structures",
		Long:    "Runs every benchmark with several goroutines against the configured backend and prints the latency of the single operations. All collections used by the benchmarks are removed afterwards.",
		PreRunE: processPerfConfig,
		RunE:    run,
	}
	perfThreads = 10
	perfOps     = 200
	perfKeys    = 10
	perfSkip    []string
)

func init() {
	key := "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines per benchmark"))
	key = "ops"
	PerfCmd.Flags().Int(key, 200, util.WrapString("Operations per goroutine and benchmark"))
	key = "keys"
	PerfCmd.Flags().Int(key, 10, util.WrapString("How many different collections each benchmark spreads its operations over"))
	key = "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated, e.g. list-push-left,zset-rank)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics"
	PerfCmd.Flags().Bool(key, false, util.WrapString("Print the collected operation metrics in Prometheus format after the run"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	perfThreads = viper.GetInt("threads")
	perfOps = viper.GetInt("ops")
	perfKeys = viper.GetInt("keys")
	perfSkip = nil
	if skip := viper.GetString("skip"); skip != "" {
		perfSkip = strings.Split(skip, ",")
	}
	if perfThreads < 1 || perfOps < 1 || perfKeys < 1 {
		return fmt.Errorf("threads, ops and keys must be at least 1")
	}
	return nil
}

// Result is the outcome of one benchmark
type Result struct {
	Name      string  `json:"name" yaml:"name"`
	Ops       int64   `json:"ops" yaml:"ops"`
	Errors    int64   `json:"errors" yaml:"errors"`
	OpsPerSec float64 `json:"ops_per_sec" yaml:"ops_per_sec"`
	MeanUs    float64 `json:"mean_us" yaml:"mean_us"`
	P50Us     float64 `json:"p50_us" yaml:"p50_us"`
	P99Us     float64 `json:"p99_us" yaml:"p99_us"`
	MaxUs     float64 `json:"max_us" yaml:"max_us"`
}

func run(cmd *cobra.Command, _ []string) error {
	b, err := util.OpenBackend()
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Errorf("failed to close backend: %v", err)
		}
	}()

	conf := util.GetConfig()
	text := viper.GetString("output") == "text"
	out := cmd.OutOrStdout()
	if text {
		fmt.Fprintln(out, "Performance testing tool for dStruct")
		fmt.Fprintln(out, conf.String())
		fmt.Fprintf(out, "Backend: %s, Threads: %d, Ops per thread: %d, Collections: %d\n\n",
			viper.GetString("backend"), perfThreads, perfOps, perfKeys)
	}

	registry := gometrics.NewRegistry()
	var results []Result
	for _, bench := range benchmarks {
		if shouldSkip(bench.name) {
			continue
		}
		r := runBenchmark(b.DS, bench, registry)
		results = append(results, r)
		if text {
			printResult(out, r)
		}
	}

	if err := cleanup(b.DS); err != nil {
		log.Errorf("cleanup failed: %v", err)
	}

	if path := viper.GetString("csv"); path != "" {
		if err := writeResultsToCSV(path, results); err != nil {
			return err
		}
	}
	if !text {
		if err := util.Print(out, util.Result{"results": results}); err != nil {
			return err
		}
	}
	if viper.GetBool("metrics") {
		fmt.Fprintln(out)
		vmetrics.WritePrometheus(out, false)
	}
	return nil
}

// runBenchmark runs bench on perfThreads goroutines and times every single operation
func runBenchmark(d *ds.DS, bench benchmark, registry gometrics.Registry) Result {
	timer := gometrics.GetOrRegisterTimer(bench.name, registry)
	var (
		wg     sync.WaitGroup
		errors atomic.Int64
	)

	start := time.Now()
	for t := 0; t < perfThreads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			for i := 0; i < perfOps; i++ {
				opStart := time.Now()
				err := bench.op(d, t*perfOps+i)
				timer.UpdateSince(opStart)
				if err != nil {
					errors.Add(1)
					log.Debugf("(%s) - %v", bench.name, err)
				}
			}
		}(t)
	}
	wg.Wait()
	elapsed := time.Since(start)

	snap := timer.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.99})
	return Result{
		Name:      bench.name,
		Ops:       snap.Count(),
		Errors:    errors.Load(),
		OpsPerSec: float64(snap.Count()) / elapsed.Seconds(),
		MeanUs:    snap.Mean() / 1e3,
		P50Us:     ps[0] / 1e3,
		P99Us:     ps[1] / 1e3,
		MaxUs:     float64(snap.Max()) / 1e3,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(name string) bool {
	for _, skip := range perfSkip {
		if strings.TrimSpace(skip) == name {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark in a formatted way
func printResult(w io.Writer, r Result) {
	name := color.New(color.Bold).Sprintf("%-20s", r.Name)
	line := fmt.Sprintf("%s%10.0f ops/sec   mean %8.1fµs   p50 %8.1fµs   p99 %8.1fµs   max %8.1fµs",
		name, r.OpsPerSec, r.MeanUs, r.P50Us, r.P99Us, r.MaxUs)
	if r.Errors > 0 {
		line += color.RedString("   %d errors", r.Errors)
	}
	fmt.Fprintln(w, line)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []Result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "Ops", "Errors", "OpsPerSec", "MeanUs", "P50Us", "P99Us", "MaxUs",
		"Backend", "Codec", "Threads", "OpsPerThread", "Collections",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for _, r := range results {
		row := []string{
			r.Name,
			strconv.FormatInt(r.Ops, 10),
			strconv.FormatInt(r.Errors, 10),
			f(r.OpsPerSec), f(r.MeanUs), f(r.P50Us), f(r.P99Us), f(r.MaxUs),
			viper.GetString("backend"),
			viper.GetString("codec"),
			strconv.Itoa(perfThreads),
			strconv.Itoa(perfOps),
			strconv.Itoa(perfKeys),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.Name, err)
		}
	}
	return nil
}
