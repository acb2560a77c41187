package main

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/redactset/pkg/rss"
)

var (
	perfScheme      string
	perfOps         int
	perfConcurrency int
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Sample sign/verify throughput under concurrent load",
	Long: `perf runs a batch of independent sign-then-verify operations spread across
a worker pool and reports achieved throughput. Concurrency here exists only
in this benchmarking harness: the underlying scheme operations are pure
functions with no shared mutable state, rounds, or ordering requirements.`,
	RunE: runPerf,
}

func init() {
	perfCmd.Flags().StringVar(&perfScheme, "scheme", "derler", "scheme to benchmark: derler, large, small")
	perfCmd.Flags().IntVar(&perfOps, "ops", 100, "number of sign+verify operations to run")
	perfCmd.Flags().IntVar(&perfConcurrency, "concurrency", 8, "number of concurrent workers")
}

// perfReport is the CBOR-encodable summary perf emits when --output is set.
type perfReport struct {
	Scheme       string  `cbor:"scheme"`
	Operations   int     `cbor:"operations"`
	Concurrency  int     `cbor:"concurrency"`
	ElapsedNanos int64   `cbor:"elapsed_nanos"`
	OpsPerSecond float64 `cbor:"ops_per_second"`
}

func runPerf(cmd *cobra.Command, args []string) error {
	op, err := perfOperation(perfScheme)
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(perfConcurrency)

	start := time.Now()
	for i := 0; i < perfOps; i++ {
		g.Go(op)
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("perf: operation failed: %w", err)
	}
	elapsed := time.Since(start)

	report := perfReport{
		Scheme:       perfScheme,
		Operations:   perfOps,
		Concurrency:  perfConcurrency,
		ElapsedNanos: elapsed.Nanoseconds(),
		OpsPerSecond: float64(perfOps) / elapsed.Seconds(),
	}

	fmt.Printf("scheme=%s operations=%d concurrency=%d elapsed=%s throughput=%.1f ops/s\n",
		report.Scheme, report.Operations, report.Concurrency, elapsed, report.OpsPerSecond)

	if outputFile != "" {
		data, err := cbor.Marshal(report)
		if err != nil {
			return fmt.Errorf("perf: encoding report: %w", err)
		}
		return writeKeyFile(outputFile, string(data))
	}
	return nil
}

// perfOperation returns a fresh, independent sign-then-verify closure per
// scheme: each call is a standalone pure computation, suitable for running
// across an unordered worker pool.
func perfOperation(scheme string) (func() error, error) {
	switch scheme {
	case "derler":
		return func() error {
			sk, vk, err := rss.DerlerKeyGen()
			if err != nil {
				return err
			}
			set := []string{"a", "b", "c"}
			sig, err := rss.DerlerSign(sk, set)
			if err != nil {
				return err
			}
			ok, err := rss.DerlerVerify(vk, set, sig)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("derler: benchmark signature failed to verify")
			}
			return nil
		}, nil

	case "large":
		return func() error {
			sk, vk, err := rss.LargeKeyGen()
			if err != nil {
				return err
			}
			set := []string{"a", "b", "c"}
			sig, err := rss.LargeSign(sk, set, "a AND (b OR c)")
			if err != nil {
				return err
			}
			ok, err := rss.LargeVerify(vk, set, sig)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("large: benchmark signature failed to verify")
			}
			return nil
		}, nil

	case "small":
		return func() error {
			universe := []string{"a", "b", "c", "d"}
			sk, vk, err := rss.SmallKeyGen(universe)
			if err != nil {
				return err
			}
			// {a,b,c} has characteristic 1110.
			sig, err := rss.SmallSign(sk, []string{"a", "b", "c"}, "1110")
			if err != nil {
				return err
			}
			ok, err := rss.SmallVerify(vk, []string{"a", "b", "c"}, sig)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("small: benchmark signature failed to verify")
			}
			return nil
		}, nil

	default:
		return nil, fmt.Errorf("unknown scheme %q: expected derler, large, or small", scheme)
	}
}
