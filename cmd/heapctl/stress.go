package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	stressSize       string
	stressOps        int
	stressSeed       int64
	stressMaxAlloc   int
	stressFreePct    int
	stressCheckEvery int
	stressMapped     bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().StringVar(&stressSize, "size", fmt.Sprint(arena.DefaultSize), "Arena size in bytes (k/m suffixes allowed)")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of operations")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&stressMaxAlloc, "max-alloc", 512, "Largest request size in bytes")
	cmd.Flags().IntVar(&stressFreePct, "free-pct", 45, "Percentage of operations that free a live block")
	cmd.Flags().IntVar(&stressCheckEvery, "check-every", 1, "Verify invariants every N operations (0 = only at the end)")
	cmd.Flags().BoolVar(&stressMapped, "mapped", false, "Back the arena with an anonymous memory mapping")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocation workload",
		Long: `The stress command runs a seeded random sequence of allocations and
frees, verifying heap invariants as it goes, then frees everything and checks
that the heap coalesces back to a single free block.

Example:
  heapctl stress
  heapctl stress --ops 100000 --seed 7 --max-alloc 2048
  heapctl stress --size 1m --check-every 100 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd)
		},
	}
	return cmd
}

// stressResult is the outcome of a stress run.
type stressResult struct {
	Ops         int            `json:"ops"`
	Seed        int64          `json:"seed"`
	Allocs      int            `json:"allocs"`
	Frees       int            `json:"frees"`
	NoSpace     int            `json:"nospace"`
	Checks      int            `json:"checks"`
	PeakUsedMem uint64         `json:"peak_used_mem"`
	PeakNumUsed uint32         `json:"peak_num_used"`
	PeakNumFree uint32         `json:"peak_num_free"`
	Counters    alloc.Counters `json:"counters"`
}

func runStress(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if stressMaxAlloc <= 0 {
		return fmt.Errorf("--max-alloc must be positive, got %d", stressMaxAlloc)
	}
	if stressFreePct < 0 || stressFreePct > 100 {
		return fmt.Errorf("--free-pct must be between 0 and 100, got %d", stressFreePct)
	}

	al, release, err := newHeap(stressSize, stressMapped)
	if err != nil {
		return err
	}
	defer release()

	printVerbose(out, "Stressing %d-byte arena: %d ops, seed %d\n", al.Arena().Capacity(), stressOps, stressSeed)

	res, err := stress(cmd.Context(), al, stressOps, stressSeed, stressMaxAlloc, stressFreePct, stressCheckEvery)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(out, res)
	}

	printInfo(out, "Stress passed: %d ops (seed %d)\n", res.Ops, res.Seed)
	printInfo(out, "  Allocs:  %d (%d without space)\n", res.Allocs, res.NoSpace)
	printInfo(out, "  Frees:   %d\n", res.Frees)
	printInfo(out, "  Checks:  %d\n", res.Checks)
	printInfo(out, "  Peak:    %d bytes in %d used blocks, %d free blocks\n",
		res.PeakUsedMem, res.PeakNumUsed, res.PeakNumFree)
	printInfo(out, "  Splits:  %d, coalesced down %d, up %d\n",
		res.Counters.Splits, res.Counters.CoalesceDown, res.Counters.CoalesceUp)
	return nil
}

// stress runs the random workload and the final drain.
func stress(ctx context.Context, al *alloc.Allocator, ops int, seed int64, maxAlloc, freePct, checkEvery int) (stressResult, error) {
	rng := rand.New(rand.NewSource(seed))
	res := stressResult{Seed: seed}
	var live []alloc.Ptr

	check := func(op int) error {
		res.Checks++
		if err := verify.AllInvariants(al); err != nil {
			return fmt.Errorf("invariant violated after op %d (seed %d): %w", op, seed, err)
		}
		return nil
	}

	for i := range ops {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if len(live) > 0 && rng.Intn(100) < freePct {
			idx := rng.Intn(len(live))
			al.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Frees++
		} else {
			size := 1 + rng.Intn(maxAlloc)
			p, err := al.Malloc(size)
			switch {
			case errors.Is(err, alloc.ErrNoSpace):
				res.NoSpace++
				logger.Debug("stress: no space", "op", i, "size", size, "largest", al.LargestFree())
			case err != nil:
				return res, err
			default:
				live = append(live, p)
				res.Allocs++
			}
		}
		res.Ops++

		if checkEvery > 0 && (i+1)%checkEvery == 0 {
			if err := check(i); err != nil {
				return res, err
			}
		}
	}

	for _, p := range live {
		al.Free(p)
	}
	if err := check(ops); err != nil {
		return res, err
	}
	if s := al.Stats(); s.CurrNumFreeBlocks != 1 || s.CurrNumUsedBlocks != 0 {
		return res, fmt.Errorf("heap did not coalesce after drain: %d free, %d used blocks",
			s.CurrNumFreeBlocks, s.CurrNumUsedBlocks)
	}

	s := al.Stats()
	res.PeakUsedMem = s.PeakUsedMem
	res.PeakNumUsed = s.PeakNumUsed
	res.PeakNumFree = s.PeakNumFree
	res.Counters = al.Counters()
	return res, nil
}
