package genepool

import "slices"

// Histogram counts how many genes hold each quality value.
// It is rebuilt from scratch for every selection step.
type Histogram struct {
	counts map[Quality]int
	values []Quality // distinct values, ascending
}

// NewHistogram builds a histogram over qs.
func NewHistogram(qs []Quality) *Histogram {
	h := &Histogram{counts: make(map[Quality]int, len(qs))}
	for _, q := range qs {
		if h.counts[q] == 0 {
			h.values = append(h.values, q)
		}
		h.counts[q]++
	}
	slices.Sort(h.values)
	return h
}

// Len returns the number of distinct quality values.
func (h *Histogram) Len() int { return len(h.values) }

// Count returns how many genes hold quality q.
func (h *Histogram) Count(q Quality) int { return h.counts[q] }

// Highest returns the largest quality present, or 0 for an empty histogram.
func (h *Histogram) Highest() Quality {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[len(h.values)-1]
}

// Lowest returns the smallest quality present, or 0 for an empty histogram.
func (h *Histogram) Lowest() Quality {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[0]
}

// Threshold returns the quality value at which n genes have been counted.
//
// With fromTop set, it walks from the highest value down and returns the
// first value q where at least n genes have quality >= q. Otherwise it walks
// up from the lowest value and returns the first q where at least n genes
// have quality <= q. If the histogram holds fewer than n genes, the last
// value visited is returned.
func (h *Histogram) Threshold(n int, fromTop bool) Quality {
	if len(h.values) == 0 {
		return 0
	}
	seen := 0
	if fromTop {
		for i := len(h.values) - 1; i >= 0; i-- {
			seen += h.counts[h.values[i]]
			if seen >= n {
				return h.values[i]
			}
		}
		return h.values[0]
	}
	for _, v := range h.values {
		seen += h.counts[v]
		if seen >= n {
			return v
		}
	}
	return h.values[len(h.values)-1]
}
