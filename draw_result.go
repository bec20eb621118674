package luckbook

import (
	"slices"
	"strconv"
	"strings"
)

// GeneratedSet is an ascending sequence of distinct numbers drawn for one variant
type GeneratedSet []int

// Key returns the canonical dedup key: ascending members joined by ","
func (s GeneratedSet) Key() string {
	sorted := slices.Clone(s)
	slices.Sort(sorted)

	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, KeyDelimiter)
}

// String renders the set like its key
func (s GeneratedSet) String() string { return s.Key() }

// Conforms checks the set against a variant: right size, in range, distinct, ascending
func (s GeneratedSet) Conforms(v Variant, count int) bool {
	if len(s) != count {
		return false
	}
	for i, n := range s {
		if !v.Contains(n) {
			return false
		}
		if i > 0 && s[i] <= s[i-1] {
			return false
		}
	}
	return true
}

// Contains reports whether any member's decimal text contains query
func (s GeneratedSet) Contains(query string) bool {
	for _, n := range s {
		if strings.Contains(strconv.Itoa(n), query) {
			return true
		}
	}
	return false
}

// BatchResult represents the outcome of a multi-set generation request
type BatchResult struct {
	Variant    VariantID      `json:"variant"`
	Sets       []GeneratedSet `json:"sets"`
	Requested  int            `json:"requested"`  // quantity after clamping
	Produced   int            `json:"produced"`   // distinct sets returned
	Attempts   int            `json:"attempts"`   // single-set generations performed
	Duplicates int            `json:"duplicates"` // generations discarded as duplicates
	Partial    bool           `json:"partial"`    // attempt cap reached before Requested
}

// IsComplete returns true if every requested set was produced
func (r *BatchResult) IsComplete() bool {
	return r.Produced >= r.Requested
}

// SuccessRate returns the produced share as a percentage
func (r *BatchResult) SuccessRate() float64 {
	if r.Requested == 0 {
		return 0.0
	}
	return float64(r.Produced) / float64(r.Requested) * 100.0
}
