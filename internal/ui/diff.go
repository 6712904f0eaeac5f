package ui

import "strings"

type diffOp int

const (
	diffEqual diffOp = iota
	diffDelete
	diffInsert
)

type diffLine struct {
	op   diffOp
	text string
}

// diffLines computes a line-level diff between two texts using the classic
// LCS table. Inputs here are prompts, small enough that the quadratic table
// is not a concern.
func diffLines(original, optimized string) []diffLine {
	a := splitLines(original)
	b := splitLines(optimized)

	// LCS lengths.
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

	var out []diffLine
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, diffLine{diffEqual, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, diffLine{diffDelete, a[i]})
			i++
		default:
			out = append(out, diffLine{diffInsert, b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, diffLine{diffDelete, a[i]})
	}
	for ; j < len(b); j++ {
		out = append(out, diffLine{diffInsert, b[j]})
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
