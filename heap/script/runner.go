package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// ErrUnknownName indicates a free of a name with no live allocation.
	ErrUnknownName = errors.New("script: no live allocation with that name")

	// ErrNameInUse indicates an alloc reusing a live allocation's name.
	ErrNameInUse = errors.New("script: name already allocated")
)

// StepError wraps a failure while executing a step.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("script: line %d (%s): %v", e.Step.Line, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Options configures a Runner.
type Options struct {
	// StrictSpace turns an alloc that returns alloc.ErrNoSpace into a
	// script failure. By default the failure is counted and the name stays
	// unbound.
	StrictSpace bool

	// CheckEachStep runs verify.AllInvariants after every step.
	CheckEachStep bool

	// Logger receives one debug record per step. Nil uses internal/logger.
	Logger *slog.Logger
}

// Result summarizes a run.
type Result struct {
	Steps      int
	Allocs     int
	Frees      int
	NoSpace    int
	Checks     int
	LiveBlocks []string // names still allocated, sorted
}

// Runner executes scripts against one allocator.
type Runner struct {
	al    *alloc.Allocator
	out   *printer.Printer
	opts  Options
	names map[string]alloc.Ptr
}

// NewRunner creates a runner. out receives dump and stats output and may be
// nil to discard it.
func NewRunner(al *alloc.Allocator, out *printer.Printer, opts *Options) *Runner {
	if opts == nil {
		opts = &Options{}
	}
	return &Runner{
		al:    al,
		out:   out,
		opts:  *opts,
		names: make(map[string]alloc.Ptr),
	}
}

// Lookup returns the live pointer bound to name.
func (r *Runner) Lookup(name string) (alloc.Ptr, bool) {
	p, ok := r.names[name]
	return p, ok
}

// Run executes every step in order, stopping at the first failure or when
// ctx is cancelled. Bindings persist across calls.
func (r *Runner) Run(ctx context.Context, s *Script) (Result, error) {
	var res Result
	log := r.opts.Logger
	if log == nil {
		log = logger.L
	}

	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return r.finish(res), err
		}
		if err := r.exec(step, &res); err != nil {
			return r.finish(res), &StepError{Step: step, Err: err}
		}
		res.Steps++
		log.Debug("script step", "line", step.Line, "step", step.String())

		if r.opts.CheckEachStep && step.Op != OpCheck {
			if err := verify.AllInvariants(r.al); err != nil {
				return r.finish(res), &StepError{Step: step, Err: err}
			}
		}
	}
	return r.finish(res), nil
}

func (r *Runner) exec(step Step, res *Result) error {
	switch step.Op {
	case OpAlloc:
		if _, ok := r.names[step.Name]; ok {
			return ErrNameInUse
		}
		p, err := r.al.Malloc(step.Size)
		if errors.Is(err, alloc.ErrNoSpace) && !r.opts.StrictSpace {
			res.NoSpace++
			return nil
		}
		if err != nil {
			return err
		}
		r.names[step.Name] = p
		res.Allocs++

	case OpFree:
		p, ok := r.names[step.Name]
		if !ok {
			return ErrUnknownName
		}
		r.al.Free(p)
		delete(r.names, step.Name)
		res.Frees++

	case OpCheck:
		res.Checks++
		return verify.AllInvariants(r.al)

	case OpStats:
		if r.out != nil {
			return r.out.PrintStats(r.al.Stats())
		}

	case OpDump:
		if r.out != nil {
			return r.out.Dump(r.al)
		}

	default:
		return fmt.Errorf("unknown instruction %q", step.Op)
	}
	return nil
}

func (r *Runner) finish(res Result) Result {
	res.LiveBlocks = make([]string, 0, len(r.names))
	for name := range r.names {
		res.LiveBlocks = append(res.LiveBlocks, name)
	}
	sort.Strings(res.LiveBlocks)
	return res
}
