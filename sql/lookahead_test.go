package sql

import (
	"slices"
	"testing"
)

func TestLookahead(t *testing.T) {
	stream := NewLookahead(slices.Values([]int{1, 2, 3}))
	defer stream.Close()

	if v, ok := stream.Peek(1); !ok || v != 2 {
		t.Errorf("Expected Peek(1) = 2, got %d (%v)", v, ok)
	}
	if v, ok := stream.Peek(0); !ok || v != 1 {
		t.Errorf("Expected Peek(0) = 1, got %d (%v)", v, ok)
	}
	if _, ok := stream.Peek(3); ok {
		t.Error("Expected Peek(3) past end to fail")
	}

	var drained []int
	for {
		v, ok := stream.Next()
		if !ok {
			break
		}
		drained = append(drained, v)
	}
	if !slices.Equal(drained, []int{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", drained)
	}
	if _, ok := stream.Peek(0); ok {
		t.Error("Expected exhausted stream")
	}
}

func TestLookaheadCloseEarly(t *testing.T) {
	stopped := false
	seq := func(yield func(string) bool) {
		defer func() { stopped = true }()
		for _, s := range []string{"a", "b", "c"} {
			if !yield(s) {
				return
			}
		}
	}

	stream := NewLookahead(seq)
	if v, _ := stream.Next(); v != "a" {
		t.Errorf("Expected a, got %s", v)
	}
	stream.Close()

	if !stopped {
		t.Error("Expected underlying sequence to be stopped")
	}
}
