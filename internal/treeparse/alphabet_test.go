package treeparse

import (
	"reflect"
	"testing"
)

func TestDepthAlphabet_Depth(t *testing.T) {
	var a DepthAlphabet

	steps := []struct {
		weight int
		want   int
	}{
		{weight: 1, want: 0},
		{weight: 3, want: 1},
		{weight: 1, want: 0},
		{weight: 2, want: 1},
		{weight: 3, want: 2},
		{weight: 0, want: 0},
		{weight: 3, want: 3},
	}

	for i, s := range steps {
		if got := a.Depth(s.weight); got != s.want {
			t.Fatalf("step %d: Depth(%d) = %d, want %d", i, s.weight, got, s.want)
		}
	}

	if got, want := a.Weights(), []int{0, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Weights() = %v, want %v", got, want)
	}
}

func TestDepthAlphabet_DepthIsRank(t *testing.T) {
	var a DepthAlphabet
	for _, w := range []int{5, 2, 9, 2, 7, 1, 5} {
		d := a.Depth(w)
		weights := a.Weights()
		if weights[d] != w {
			t.Fatalf("Depth(%d) = %d but Weights()[%d] = %d", w, d, d, weights[d])
		}
		for i := 1; i < len(weights); i++ {
			if weights[i-1] >= weights[i] {
				t.Fatalf("weights not strictly ascending: %v", weights)
			}
		}
	}
}

func TestDepthAlphabet_Reset(t *testing.T) {
	var a DepthAlphabet
	a.Depth(4)
	a.Depth(8)
	a.Reset()

	if len(a.Weights()) != 0 {
		t.Fatalf("Weights() after Reset = %v", a.Weights())
	}
	if got := a.Depth(8); got != 0 {
		t.Errorf("Depth(8) after Reset = %d, want 0", got)
	}
}
