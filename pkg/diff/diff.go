// Package diff computes line-level differences between two payloads using
// Myers' shortest-edit-script algorithm. The greedy forward search is
// written out rather than pulled from a library so the tie-break between
// equally short scripts is fixed: the downward (insert) neighbor is
// preferred, which keeps preview and rollback diffs byte-stable.
package diff

import "strings"

// OpType classifies a diff line
type OpType string

const (
	Equal  OpType = "equal"
	Insert OpType = "insert"
	Delete OpType = "delete"
)

// Line is one entry of an edit script. OldLine/NewLine are 1-based and set
// only where the line exists on that side (both for equal lines).
type Line struct {
	Type    OpType `json:"type"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
	Content string `json:"content"`
}

// LineDiff returns the shortest edit script from oldText to newText.
// Empty inputs and inputs with no common lines are handled: the script
// degenerates to all-delete and/or all-insert.
func LineDiff(oldText, newText string) []Line {
	a := SplitLines(oldText)
	b := SplitLines(newText)
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	return backtrack(a, b, shortestEdit(a, b))
}

// SplitLines splits a payload into lines, dropping a trailing newline's
// phantom empty line. An empty payload has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// shortestEdit runs the greedy forward search, recording the furthest-x
// state per diagonal before each depth for backtracking.
func shortestEdit(a, b []string) [][]int {
	n, m := len(a), len(b)
	max := n + m
	v := make([]int, 2*max+2)
	var trace [][]int
	for d := 0; d <= max; d++ {
		vc := make([]int, len(v))
		copy(vc, v)
		trace = append(trace, vc)
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[max+k-1] < v[max+k+1]) {
				x = v[max+k+1]
			} else {
				x = v[max+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[max+k] = x
			if x >= n && y >= m {
				return trace
			}
		}
	}
	return trace
}

func backtrack(a, b []string, trace [][]int) []Line {
	n, m := len(a), len(b)
	max := n + m
	x, y := n, m
	var ops []Line
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && v[max+k-1] < v[max+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[max+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			ops = append(ops, Line{Type: Equal, OldLine: x, NewLine: y, Content: a[x-1]})
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				ops = append(ops, Line{Type: Insert, NewLine: y, Content: b[y-1]})
				y--
			} else {
				ops = append(ops, Line{Type: Delete, OldLine: x, Content: a[x-1]})
				x--
			}
		}
		if x == 0 && y == 0 {
			break
		}
	}
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
