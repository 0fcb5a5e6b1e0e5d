// Package trace turns raw trace text into an ordered sequence of cache
// operations and back, and can synthesise traces from Lua scripts.
//
// Trace text holds one operation per line:
//
//	OP KEY [VALUE...]
//
// OP is GET or PUT (case-insensitive). Everything after KEY is rejoined
// with single spaces to form the value. Blank lines, lines starting with
// '#', lines with fewer than two tokens and unknown OPs are dropped.
//
// Text without any real line break is treated as escaped: each literal
// `\n` separates two lines. Multi-line text is taken verbatim.
package trace

import (
	"errors"
	"strings"
)

// OpType is the kind of a cache operation.
type OpType string

// Supported operations.
const (
	Get OpType = "GET"
	Put OpType = "PUT"
)

// Operation is one parsed trace line. Value is empty for GET.
type Operation struct {
	Type  OpType `json:"type" yaml:"type"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ErrNoOperations is returned when a trace yields no operations at all.
var ErrNoOperations = errors.New("trace: no operations parsed")

// Parse splits text into operations, preserving line order. Malformed
// lines are skipped silently; an empty result is reported as
// ErrNoOperations.
func Parse(text string) ([]Operation, error) {
	// Traces embedded in JSON strings often arrive with escaped newlines.
	if !strings.Contains(text, "\n") {
		text = strings.ReplaceAll(text, `\n`, "\n")
	}

	var ops []Operation
	for _, line := range strings.Split(text, "\n") {
		if op, ok := parseLine(line); ok {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}
	return ops, nil
}

func parseLine(line string) (Operation, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Operation{}, false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Operation{}, false
	}

	op := OpType(strings.ToUpper(fields[0]))
	if op != Get && op != Put {
		return Operation{}, false
	}
	out := Operation{Type: op, Key: fields[1]}
	if op == Put {
		out.Value = strings.Join(fields[2:], " ")
	}
	return out, true
}

// Format renders ops back into trace text, one line per operation.
// Keys and values produced by Parse or Generate survive a Parse round trip.
func Format(ops []Operation) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(string(op.Type))
		b.WriteByte(' ')
		b.WriteString(op.Key)
		if op.Type == Put && op.Value != "" {
			b.WriteByte(' ')
			b.WriteString(op.Value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
