package check

// This file suggests a defined function for an undefined call
// ("did you mean strlen?").

import (
	"strings"
	"unicode"
)

// nearest returns the candidate function name nearest to the called
// name x, or "" if none is near enough.
//
// Names are compared ignoring case, underscores and a leading
// namespace separator. Only the last segment is compared by edit
// distance. A qualified x matches only candidates in the same
// namespace; an unqualified x also matches namespaced candidates, at
// the cost of one extra edit.
func nearest(x string, candidates []string) string {
	xns, xname := splitName(foldName(x))

	var best string
	bestD := (len(xname) + 1) / 2 // allow up to 50% typos
	for _, c := range candidates {
		ns, name := splitName(foldName(c))
		if ns == xns && name == xname {
			continue // the same function, spelled differently
		}
		d := 0
		if ns != xns {
			if xns != "" {
				continue
			}
			d++
		}
		d += distance(xname, name, bestD)
		if d < bestD {
			bestD = d
			best = c
		}
	}
	return best
}

// foldName lower-cases a function name and drops underscores and a
// leading separator.
func foldName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, strings.TrimPrefix(s, `\`))
}

// splitName splits a folded name into its namespace and last segment.
func splitName(s string) (ns, name string) {
	if i := strings.LastIndexByte(s, '\\'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// distance returns the Levenshtein edit distance between the byte
// strings x and y. Once the distance is known to exceed max it returns
// early with some value greater than max.
func distance(x, y string, max int) int {
	if len(x) > len(y) {
		x, y = y, x
	}

	// Drop the common prefix.
	i := 0
	for i < len(x) && x[i] == y[i] {
		i++
	}
	x, y = x[i:], y[i:]
	if x == "" {
		return len(y)
	}
	if len(y)-len(x) > max {
		return len(y) - len(x)
	}

	// One row of the edit matrix, indexed by position in y.
	row := make([]int, len(y)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(x); i++ {
		diag := row[0]
		row[0] = i
		rowMin := i
		for j := 1; j <= len(y); j++ {
			cost := diag
			if x[i-1] != y[j-1] {
				cost++
			}
			diag = row[j]
			row[j] = min(cost, row[j]+1, row[j-1]+1)
			rowMin = min(rowMin, row[j])
		}
		if rowMin > max {
			return rowMin
		}
	}
	return row[len(y)]
}
