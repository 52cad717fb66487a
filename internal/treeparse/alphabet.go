package treeparse

import "sort"

// DepthAlphabet maps raw indentation weights to depths.
//
// The listing does not use a fixed indent width, so depth is the rank of a
// weight among every distinct weight observed so far. A weight first seen
// after larger ones shifts the rank of later lines only; nodes already
// emitted keep the depth they were given.
type DepthAlphabet struct {
	weights []int
}

// Depth returns the rank of weight, inserting it when new.
func (a *DepthAlphabet) Depth(weight int) int {
	i := sort.SearchInts(a.weights, weight)
	if i < len(a.weights) && a.weights[i] == weight {
		return i
	}

	a.weights = append(a.weights, 0)
	copy(a.weights[i+1:], a.weights[i:])
	a.weights[i] = weight
	return i
}

// Weights returns the observed weights in ascending order.
func (a *DepthAlphabet) Weights() []int {
	out := make([]int, len(a.weights))
	copy(out, a.weights)
	return out
}

// Reset forgets every observed weight.
func (a *DepthAlphabet) Reset() {
	a.weights = a.weights[:0]
}
