package printer

import (
	"encoding/json"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// jsonStats represents heap statistics in JSON format.
type jsonStats struct {
	HeapStart      uint32  `json:"heap_start"`
	HeapEnd        uint32  `json:"heap_end"`
	Capacity       uint64  `json:"capacity"`
	HeaderOverhead uint64  `json:"header_overhead"`
	FreeMem        uint64  `json:"free_mem"`
	UsedMem        uint64  `json:"used_mem"`
	NumFree        uint32  `json:"num_free"`
	NumUsed        uint32  `json:"num_used"`
	PeakFreeMem    uint64  `json:"peak_free_mem"`
	PeakUsedMem    uint64  `json:"peak_used_mem"`
	PeakNumFree    uint32  `json:"peak_num_free"`
	PeakNumUsed    uint32  `json:"peak_num_used"`
	Utilization    float64 `json:"utilization"`
}

// jsonBlock represents one block header in JSON format. Absent links are
// omitted.
type jsonBlock struct {
	Offset    uint32  `json:"offset"`
	Kind      string  `json:"kind"`
	Size      uint32  `json:"size"`
	AboveFree bool    `json:"above_free,omitempty"`
	Next      *uint32 `json:"next,omitempty"`
	Prev      *uint32 `json:"prev,omitempty"`
}

// jsonDump represents a full heap dump in JSON format.
type jsonDump struct {
	Stats    jsonStats       `json:"stats"`
	Counters *alloc.Counters `json:"counters,omitempty"`
	Cursor   *uint32         `json:"cursor,omitempty"`
	Free     []jsonBlock     `json:"free,omitempty"`
	Used     []jsonBlock     `json:"used,omitempty"`
	Layout   []jsonBlock     `json:"layout,omitempty"`
}

func toJSONStats(s arena.Stats) jsonStats {
	return jsonStats{
		HeapStart:      s.HeapStart,
		HeapEnd:        s.HeapEnd,
		Capacity:       s.Capacity,
		HeaderOverhead: s.HeaderOverhead,
		FreeMem:        s.CurrFreeMem,
		UsedMem:        s.CurrUsedMem,
		NumFree:        s.CurrNumFreeBlocks,
		NumUsed:        s.CurrNumUsedBlocks,
		PeakFreeMem:    s.PeakFreeMem,
		PeakUsedMem:    s.PeakUsedMem,
		PeakNumFree:    s.PeakNumFree,
		PeakNumUsed:    s.PeakNumUsed,
		Utilization:    s.Utilization(),
	}
}

func link(off uint32) *uint32 {
	if off == format.InvalidOffset {
		return nil
	}
	return &off
}

func toJSONBlocks(blocks []alloc.Block) []jsonBlock {
	out := make([]jsonBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, jsonBlock{
			Offset:    b.Offset,
			Kind:      b.Kind.String(),
			Size:      b.Size,
			AboveFree: b.AboveFree,
			Next:      link(b.Next),
			Prev:      link(b.Prev),
		})
	}
	return out
}

// printStatsJSON prints statistics in JSON format.
func (p *Printer) printStatsJSON(s arena.Stats) error {
	return p.encode(toJSONStats(s))
}

// dumpJSON prints a full heap dump in JSON format.
func (p *Printer) dumpJSON(h Heap) error {
	d := jsonDump{
		Stats:  toJSONStats(h.Stats()),
		Cursor: link(h.Cursor()),
	}
	if p.opts.ShowCounters {
		c := h.Counters()
		d.Counters = &c
	}
	if p.opts.ShowLists {
		free, _ := p.limit(h.FreeBlocks())
		used, _ := p.limit(h.UsedBlocks())
		d.Free = toJSONBlocks(free)
		d.Used = toJSONBlocks(used)
	}
	if p.opts.ShowLayout {
		blocks, _, err := p.layout(h)
		if err != nil {
			return err
		}
		d.Layout = toJSONBlocks(blocks)
	}
	return p.encode(d)
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
