package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/script"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logFile  string
	logLevel string

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Drive and inspect a fixed-arena heap allocator",
	Long: `heapctl runs allocation scripts and randomized workloads against an
explicit-free-list, next-fit heap living in a single fixed arena, and prints
its statistics and block layout.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := logger.Init(logger.Options{
			Enabled: verbose || logFile != "",
			File:    logFile,
			Level:   logger.ParseLevel(logLevel),
			Stderr:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		closeLog = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug", "Minimum log level (debug, info, warn, error)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(w io.Writer, format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(w io.Writer, format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// newHeap creates and initializes an allocator over a fresh arena of the
// given size. The returned release function must be called when done.
func newHeap(sizeFlag string, mapped bool) (*alloc.Allocator, func() error, error) {
	size, err := script.ParseSize(sizeFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("--size: %w", err)
	}

	var a *arena.Arena
	if mapped {
		a, err = arena.NewMapped(size)
	} else {
		a, err = arena.New(size)
	}
	if err != nil {
		return nil, nil, err
	}

	al := alloc.New(a, &alloc.Options{Trace: verbose})
	al.Initialize()
	logger.Debug("heap initialized", "capacity", a.Capacity(), "mapped", a.Mapped())
	return al, a.Release, nil
}

// newPrinter returns a printer honoring the global output flags, or nil in
// quiet mode.
func newPrinter(w io.Writer) *printer.Printer {
	if quiet {
		return nil
	}
	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.ShowCounters = verbose
	return printer.New(w, opts)
}
