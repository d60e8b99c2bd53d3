package verify

import (
	"fmt"
	"strings"
)

const diffContext = 3

type opKind byte

const (
	opKeep   opKind = ' '
	opRemove opKind = '-'
	opAdd    opKind = '+'
)

type lineOp struct {
	kind opKind
	text string
}

// Diff renders a unified diff between two versions of a file with three
// lines of context. It returns "" when the versions are equal.
func Diff(a, b, nameA, nameB string) string {
	if a == b {
		return ""
	}
	ops := diffLines(splitLines(a), splitLines(b))

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s\n", nameA, nameB)
	for _, h := range hunks(ops) {
		out.WriteString(h)
	}
	return out.String()
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffLines computes a line edit script from the longest common subsequence.
func diffLines(a, b []string) []lineOp {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]lineOp, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, lineOp{opKeep, a[i]})
			i++
			j++
		case j < len(b) && (i == len(a) || lcs[i][j+1] >= lcs[i+1][j]):
			ops = append(ops, lineOp{opAdd, b[j]})
			j++
		default:
			ops = append(ops, lineOp{opRemove, a[i]})
			i++
		}
	}
	return ops
}

// hunks groups changes that are within 2*diffContext lines of each other
// and renders each group with its header.
func hunks(ops []lineOp) []string {
	var out []string
	for start := 0; start < len(ops); {
		first := start
		for first < len(ops) && ops[first].kind == opKeep {
			first++
		}
		if first == len(ops) {
			break
		}

		last := first
		for k := first; k < len(ops); k++ {
			if ops[k].kind == opKeep {
				continue
			}
			if k-last > 2*diffContext {
				break
			}
			last = k
		}

		lo := max(first-diffContext, start)
		hi := min(last+diffContext+1, len(ops))
		out = append(out, renderHunk(ops, lo, hi))
		start = hi
	}
	return out
}

func renderHunk(ops []lineOp, lo, hi int) string {
	lineA, lineB := 1, 1
	for _, op := range ops[:lo] {
		if op.kind != opAdd {
			lineA++
		}
		if op.kind != opRemove {
			lineB++
		}
	}

	var body strings.Builder
	countA, countB := 0, 0
	for _, op := range ops[lo:hi] {
		if op.kind != opAdd {
			countA++
		}
		if op.kind != opRemove {
			countB++
		}
		body.WriteByte(byte(op.kind))
		body.WriteString(op.text)
		body.WriteByte('\n')
	}

	return fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", lineA, countA, lineB, countB) + body.String()
}
