package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CommentPrefix = "#"

	// ScannerMaxLineSize bounds a single script line.
	ScannerMaxLineSize = 64 * 1024
)

// Op is a script instruction.
type Op string

const (
	OpAlloc Op = "alloc"
	OpFree  Op = "free"
	OpDump  Op = "dump"
	OpStats Op = "stats"
	OpCheck Op = "check"
)

// Step is one parsed script line.
type Step struct {
	Line int    // 1-based source line
	Op   Op     // instruction
	Name string // allocation name (alloc, free)
	Size int    // request size in bytes (alloc)
}

func (s Step) String() string {
	switch s.Op {
	case OpAlloc:
		return fmt.Sprintf("%s %s %d", s.Op, s.Name, s.Size)
	case OpFree:
		return fmt.Sprintf("%s %s", s.Op, s.Name)
	default:
		return string(s.Op)
	}
}

// Script is a parsed sequence of steps.
type Script struct {
	Steps []Step
}

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("script: syntax error")

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parse reads a script. The input may be UTF-8 or carry a UTF-8/UTF-16 byte
// order mark.
//
// Format:
//   - Blank lines and lines starting with # are ignored
//   - alloc <name> <size>: size accepts k and m suffixes (4k = 4096)
//   - free <name>
//   - dump, stats, check
func Parse(r io.Reader) (*Script, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 4096), ScannerMaxLineSize)

	s := &Script{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, CommentPrefix); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		step, err := parseLine(line)
		if err != nil {
			return nil, &SyntaxError{Line: lineNum, Text: line, Msg: err.Error()}
		}
		step.Line = lineNum
		s.Steps = append(s.Steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("script: reading line %d: %w", lineNum+1, err)
	}
	return s, nil
}

// ParseString parses a script held in memory.
func ParseString(text string) (*Script, error) {
	return Parse(strings.NewReader(text))
}

func parseLine(line string) (Step, error) {
	fields := strings.Fields(line)
	op := Op(strings.ToLower(fields[0]))
	args := fields[1:]

	switch op {
	case OpAlloc:
		if len(args) != 2 {
			return Step{}, fmt.Errorf("alloc takes <name> <size>, got %d argument(s)", len(args))
		}
		size, err := ParseSize(args[1])
		if err != nil {
			return Step{}, err
		}
		return Step{Op: op, Name: args[0], Size: size}, nil

	case OpFree:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("free takes <name>, got %d argument(s)", len(args))
		}
		return Step{Op: op, Name: args[0]}, nil

	case OpDump, OpStats, OpCheck:
		if len(args) != 0 {
			return Step{}, fmt.Errorf("%s takes no arguments", op)
		}
		return Step{Op: op}, nil

	default:
		return Step{}, fmt.Errorf("unknown instruction %q", fields[0])
	}
}

// ParseSize parses a decimal or 0x-prefixed hex byte count with an
// optional k (KiB) or m (MiB) suffix. The result must be positive.
func ParseSize(s string) (int, error) {
	mult := 1
	num := s
	switch {
	case strings.HasSuffix(s, "k"), strings.HasSuffix(s, "K"):
		mult, num = 1<<10, s[:len(s)-1]
	case strings.HasSuffix(s, "m"), strings.HasSuffix(s, "M"):
		mult, num = 1<<20, s[:len(s)-1]
	}
	base := 10
	if strings.HasPrefix(num, "0x") || strings.HasPrefix(num, "0X") {
		base, num = 16, num[2:]
	}
	n, err := strconv.ParseUint(num, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n == 0 {
		return 0, fmt.Errorf("size must be positive, got %q", s)
	}
	v := n * uint64(mult)
	if v > 1<<32 {
		return 0, fmt.Errorf("size %q exceeds 4 GiB", s)
	}
	return int(v), nil
}
