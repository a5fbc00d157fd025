package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
)

const (
	DefaultIndentSize = 2
	DefaultMaxBlocks  = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// Lang selects digit grouping for byte counts (text format only).
	// Default: language.English ("51,200")
	Lang language.Tag

	// ShowLists includes the free and used lists in dumps.
	// Default: true
	ShowLists bool

	// ShowLayout includes the physical block walk in dumps.
	// Default: true
	ShowLayout bool

	// ShowCounters includes operation counters in dumps.
	// Default: false
	ShowCounters bool

	// MaxBlocks limits how many blocks each section prints (0 = unlimited).
	// Default: 0
	MaxBlocks int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		IndentSize:   DefaultIndentSize,
		Lang:         language.English,
		ShowLists:    true,
		ShowLayout:   true,
		ShowCounters: false,
		MaxBlocks:    DefaultMaxBlocks,
	}
}

// Heap is what the printer needs from an allocator. *alloc.Allocator
// satisfies it.
type Heap interface {
	Stats() arena.Stats
	Counters() alloc.Counters
	Cursor() uint32
	FreeBlocks() []alloc.Block
	UsedBlocks() []alloc.Block
	Walk(fn func(alloc.Block) bool) error
}

// Printer handles formatted output of heap statistics and structure.
type Printer struct {
	opts   Options
	writer io.Writer
	num    *message.Printer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintStats(al.Stats())
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Lang == language.Und {
		opts.Lang = language.English
	}
	return &Printer{
		opts:   opts,
		writer: w,
		num:    message.NewPrinter(opts.Lang),
	}
}

// PrintStats prints a statistics record.
func (p *Printer) PrintStats(s arena.Stats) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printStatsJSON(s)
	case FormatText:
		return p.printStatsText(s)
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}

// Dump prints statistics followed by the free list, the used list and the
// physical layout, as enabled by the options.
func (p *Printer) Dump(h Heap) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.dumpJSON(h)
	case FormatText:
		return p.dumpText(h)
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}

// limit truncates blocks to MaxBlocks and reports how many were dropped.
func (p *Printer) limit(blocks []alloc.Block) ([]alloc.Block, int) {
	if p.opts.MaxBlocks <= 0 || len(blocks) <= p.opts.MaxBlocks {
		return blocks, 0
	}
	return blocks[:p.opts.MaxBlocks], len(blocks) - p.opts.MaxBlocks
}

// layout collects the physical walk, honouring MaxBlocks.
func (p *Printer) layout(h Heap) ([]alloc.Block, int, error) {
	var blocks []alloc.Block
	total := 0
	err := h.Walk(func(b alloc.Block) bool {
		total++
		if p.opts.MaxBlocks <= 0 || len(blocks) < p.opts.MaxBlocks {
			blocks = append(blocks, b)
		}
		return true
	})
	return blocks, total - len(blocks), err
}
