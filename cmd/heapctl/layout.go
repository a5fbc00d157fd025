package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show the block header layout",
		Long: `The layout command prints the on-arena block format: header field
offsets, boundary tag size, per-block overhead and arena limits.

Example:
  heapctl layout
  heapctl layout --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd)
		},
	}
}

func runLayout(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if jsonOut {
		return printJSON(out, map[string]interface{}{
			"header_size":     format.HeaderSize,
			"tag_size":        format.TagSize,
			"header_overhead": format.HeaderOverhead,
			"alignment":       format.Alignment,
			"fields": map[string]int{
				"kind":       format.KindOffset,
				"above_free": format.AboveFreeOffset,
				"size":       format.SizeOffset,
				"next":       format.NextOffset,
				"prev":       format.PrevOffset,
			},
			"max_arena_size":     uint64(format.MaxArenaSize),
			"default_arena_size": arena.DefaultSize,
		})
	}

	printInfo(out, "Block header (%d bytes, little-endian)\n", format.HeaderSize)
	printInfo(out, "  0x%02X  kind        1 = free, 2 = used\n", format.KindOffset)
	printInfo(out, "  0x%02X  above-free  predecessor is free\n", format.AboveFreeOffset)
	printInfo(out, "  0x%02X  size        payload bytes\n", format.SizeOffset)
	printInfo(out, "  0x%02X  next        list link\n", format.NextOffset)
	printInfo(out, "  0x%02X  prev        list link\n", format.PrevOffset)
	printInfo(out, "Boundary tag:     %d bytes at the block tail\n", format.TagSize)
	printInfo(out, "Overhead:         %d bytes per block\n", format.HeaderOverhead)
	printInfo(out, "Alignment:        %d bytes\n", format.Alignment)
	printInfo(out, "Null link:        0x%08X\n", uint32(format.InvalidOffset))
	printInfo(out, "Max arena size:   0x%X bytes\n", uint64(format.MaxArenaSize))
	printInfo(out, "Default arena:    %d bytes\n", arena.DefaultSize)
	return nil
}
