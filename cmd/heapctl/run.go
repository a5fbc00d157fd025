package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/script"
)

var (
	runSize      string
	runMapped    bool
	runCheckEach bool
	runStrict    bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runSize, "size", fmt.Sprint(arena.DefaultSize), "Arena size in bytes (k/m suffixes allowed)")
	cmd.Flags().BoolVar(&runMapped, "mapped", false, "Back the arena with an anonymous memory mapping")
	cmd.Flags().BoolVar(&runCheckEach, "check-each", false, "Verify heap invariants after every step")
	cmd.Flags().BoolVar(&runStrict, "strict", false, "Fail when an alloc finds no space")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute an allocation script",
		Long: `The run command executes an allocation script against a fresh heap.

Script format (one instruction per line, # starts a comment):
  alloc <name> <size>   allocate size bytes and bind them to name
  free <name>           free the allocation bound to name
  stats                 print heap statistics
  dump                  print statistics, free/used lists and block layout
  check                 verify all heap invariants

Example:
  heapctl run scenario.heap
  heapctl run scenario.heap --size 4k --check-each
  heapctl run scenario.heap --mapped --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args)
		},
	}
	return cmd
}

func runScript(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	printVerbose(out, "Parsing script: %s\n", path)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	s, err := script.Parse(f)
	if err != nil {
		return err
	}

	al, release, err := newHeap(runSize, runMapped)
	if err != nil {
		return err
	}
	defer release()

	r := script.NewRunner(al, newPrinter(out), &script.Options{
		StrictSpace:   runStrict,
		CheckEachStep: runCheckEach,
	})
	res, runErr := r.Run(cmd.Context(), s)

	if jsonOut {
		result := map[string]interface{}{
			"script":  path,
			"steps":   res.Steps,
			"allocs":  res.Allocs,
			"frees":   res.Frees,
			"nospace": res.NoSpace,
			"checks":  res.Checks,
			"live":    res.LiveBlocks,
			"ok":      runErr == nil,
		}
		if runErr != nil {
			result["error"] = runErr.Error()
		}
		if err := printJSON(out, result); err != nil {
			return err
		}
		return runErr
	}

	if runErr != nil {
		return runErr
	}

	printInfo(out, "\n%d steps: %d allocs (%d without space), %d frees, %d checks\n",
		res.Steps, res.Allocs, res.NoSpace, res.Frees, res.Checks)
	if len(res.LiveBlocks) > 0 {
		printInfo(out, "Live: %v\n", res.LiveBlocks)
	}
	return nil
}
