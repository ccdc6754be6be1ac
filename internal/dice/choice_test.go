package dice_test

import (
	"testing"

	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"grimdelve/internal/dice"
	"grimdelve/internal/dice/mocks"
)

func TestChoiceEmpty(t *testing.T) {
	if _, ok := dice.Choice[int](dice.NewSeeded(1), nil); ok {
		t.Fatal("expected ok=false for empty slice")
	}
}

func TestWeightedChoiceUsesCumulativeWeights(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)

	seq := []string{"common", "rare", "epic"}
	weights := []float64{0.7, 0.25, 0.05}

	cases := []struct {
		draw float64
		want string
	}{
		{0.0, "common"},
		{0.69, "common"},
		{0.71, "rare"},
		{0.949, "rare"},
		{0.96, "epic"},
	}
	for _, c := range cases {
		src.EXPECT().Float64().Return(c.draw)
		got, ok := dice.WeightedChoice(src, seq, weights)
		if !ok || got != c.want {
			t.Errorf("draw %.3f: got %q (ok=%v), want %q", c.draw, got, ok, c.want)
		}
	}
}

func TestWeightedChoiceSkipsZeroWeights(t *testing.T) {
	src := dice.NewSeeded(42)
	seq := []string{"never", "always", "nope"}
	weights := []float64{0, 1, -3}
	for i := 0; i < 200; i++ {
		got, ok := dice.WeightedChoice(src, seq, weights)
		if !ok || got != "always" {
			t.Fatalf("iteration %d: got %q", i, got)
		}
	}
}

func TestWeightedChoiceRejectsBadInput(t *testing.T) {
	src := dice.NewSeeded(1)
	if _, ok := dice.WeightedChoice(src, []int{1, 2}, []float64{1}); ok {
		t.Error("mismatched lengths should fail")
	}
	if _, ok := dice.WeightedChoice(src, []int{1}, []float64{0}); ok {
		t.Error("all-zero weights should fail")
	}
}

func TestIntRangeInclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		lo := rapid.IntRange(-50, 50).Draw(t, "lo")
		hi := rapid.IntRange(lo, lo+100).Draw(t, "hi")
		src := dice.NewSeeded(seed)
		for i := 0; i < 20; i++ {
			v := src.IntRange(lo, hi)
			if v < lo || v > hi {
				t.Fatalf("IntRange(%d,%d) = %d", lo, hi, v)
			}
		}
	})
}

func TestNewSeededIsDeterministic(t *testing.T) {
	a := dice.NewSeeded(99)
	b := dice.NewSeeded(99)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed produced different draws")
		}
	}
}

func TestUniformBounds(t *testing.T) {
	src := dice.NewSeeded(7)
	for i := 0; i < 500; i++ {
		v := dice.Uniform(src, 0.05, 0.20)
		if v < 0.05 || v >= 0.20 {
			t.Fatalf("Uniform out of range: %v", v)
		}
	}
}
