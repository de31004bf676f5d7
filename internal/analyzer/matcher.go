package analyzer

import (
	"sort"
	"strings"
	"unicode"
)

// TermUsage is the number of titles that contain a term.
type TermUsage struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// titleSet holds titles alongside their lower-cased forms so repeated term
// scans do not re-fold the same strings.
type titleSet struct {
	original []string
	lower    []string
}

func newTitleSet(titles []string) titleSet {
	ts := titleSet{
		original: titles,
		lower:    make([]string, len(titles)),
	}
	for i, t := range titles {
		ts.lower[i] = strings.ToLower(t)
	}
	return ts
}

func (ts titleSet) len() int { return len(ts.original) }

// countFold counts titles containing term, case-insensitively.
func (ts titleSet) countFold(term string) int {
	lt := strings.ToLower(term)
	n := 0
	for _, l := range ts.lower {
		if strings.Contains(l, lt) {
			n++
		}
	}
	return n
}

// countAnyFold counts titles containing at least one of terms.
func (ts titleSet) countAnyFold(terms []string) int {
	n := 0
	for _, l := range ts.lower {
		if containsAny(l, terms) {
			n++
		}
	}
	return n
}

// countAny counts titles containing at least one of terms, case-sensitively.
func (ts titleSet) countAny(terms []string) int {
	n := 0
	for _, o := range ts.original {
		if containsAny(o, terms) {
			n++
		}
	}
	return n
}

func (ts titleSet) countFunc(pred func(string) bool) int {
	n := 0
	for _, o := range ts.original {
		if pred(o) {
			n++
		}
	}
	return n
}

// CountTermUsage counts, for each term, the titles that contain it
// case-insensitively. Zero counts are dropped and the result is ordered by
// descending count, ties keeping the order of terms.
func CountTermUsage(titles, terms []string) []TermUsage {
	ts := newTitleSet(titles)
	out := make([]TermUsage, 0, len(terms))
	for _, term := range terms {
		if c := ts.countFold(term); c > 0 {
			out = append(out, TermUsage{Term: term, Count: c})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// QueryWords splits a query on whitespace and lower-cases each word.
func QueryWords(query string) []string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
