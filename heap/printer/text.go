package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// printStatsText prints statistics in human-readable text format.
func (p *Printer) printStatsText(s arena.Stats) error {
	ind := p.indent(1)
	n := p.num

	var b strings.Builder
	b.WriteString("Heap Statistics\n")
	fmt.Fprintf(&b, "%sRange:          %s - %s\n", ind, offset(s.HeapStart), offset(s.HeapEnd))
	n.Fprintf(&b, "%sCapacity:       %d bytes\n", ind, s.Capacity)
	n.Fprintf(&b, "%sOverhead:       %d bytes per block\n", ind, s.HeaderOverhead)
	n.Fprintf(&b, "%sFree:           %d bytes in %d blocks (peak %d bytes, %d blocks)\n",
		ind, s.CurrFreeMem, s.CurrNumFreeBlocks, s.PeakFreeMem, s.PeakNumFree)
	n.Fprintf(&b, "%sUsed:           %d bytes in %d blocks (peak %d bytes, %d blocks)\n",
		ind, s.CurrUsedMem, s.CurrNumUsedBlocks, s.PeakUsedMem, s.PeakNumUsed)
	n.Fprintf(&b, "%sMetadata:       %d bytes\n", ind, s.Overhead())
	fmt.Fprintf(&b, "%sUtilization:    %.1f%%\n", ind, s.Utilization()*100)

	_, err := io.WriteString(p.writer, b.String())
	return err
}

// dumpText prints a full heap dump in text format.
func (p *Printer) dumpText(h Heap) error {
	if err := p.printStatsText(h.Stats()); err != nil {
		return err
	}

	var b strings.Builder
	ind := p.indent(1)
	cursor := h.Cursor()

	if p.opts.ShowCounters {
		c := h.Counters()
		b.WriteString("\nCounters\n")
		p.num.Fprintf(&b, "%sMalloc:   %d calls, %d failures, %d search steps\n",
			ind, c.AllocCalls, c.AllocFailures, c.SearchSteps)
		p.num.Fprintf(&b, "%sFit:      %d splits, %d exact, %d absorbed\n",
			ind, c.Splits, c.ExactFits, c.Absorbed)
		p.num.Fprintf(&b, "%sFree:     %d calls, %d merged down, %d merged up\n",
			ind, c.FreeCalls, c.CoalesceDown, c.CoalesceUp)
	}

	if p.opts.ShowLists {
		free, more := p.limit(h.FreeBlocks())
		fmt.Fprintf(&b, "\nFree List (cursor %s)\n", offset(cursor))
		for _, blk := range free {
			p.writeListBlock(&b, blk, blk.Offset == cursor)
		}
		writeMore(&b, ind, more)

		used, more := p.limit(h.UsedBlocks())
		b.WriteString("\nUsed List\n")
		for _, blk := range used {
			p.writeListBlock(&b, blk, false)
		}
		writeMore(&b, ind, more)
	}

	if p.opts.ShowLayout {
		blocks, more, err := p.layout(h)
		if err != nil {
			return err
		}
		b.WriteString("\nLayout\n")
		for _, blk := range blocks {
			flags := ""
			if blk.AboveFree {
				flags = " above-free"
			}
			p.num.Fprintf(&b, "%s%-9s %-4s  %10d bytes  payload %s%s\n",
				ind, offset(blk.Offset), blk.Kind.String(), blk.Size, offset(uint32(blk.Ptr())), flags)
		}
		writeMore(&b, ind, more)
	}

	_, err := io.WriteString(p.writer, b.String())
	return err
}

func (p *Printer) writeListBlock(b *strings.Builder, blk alloc.Block, isCursor bool) {
	mark := ""
	if isCursor {
		mark = "  <- cursor"
	}
	p.num.Fprintf(b, "%s%-9s %10d bytes  next %-8s prev %-8s%s\n",
		p.indent(1), offset(blk.Offset), blk.Size, offset(blk.Next), offset(blk.Prev), mark)
}

func writeMore(b *strings.Builder, ind string, more int) {
	if more > 0 {
		fmt.Fprintf(b, "%s... %d more\n", ind, more)
	}
}

func (p *Printer) indent(depth int) string {
	return strings.Repeat(" ", depth*p.opts.IndentSize)
}

// offset renders a header offset, or "-" for an absent link.
func offset(off uint32) string {
	if off == format.InvalidOffset {
		return "-"
	}
	return fmt.Sprintf("0x%X", off)
}
