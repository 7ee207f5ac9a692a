package primality

import (
	"context"
	"errors"
	"testing"
)

// primeFixture pairs every demo number with its known primality.
var primeFixture = []struct {
	n     uint64
	prime bool
}{
	{2, true},
	{142702110479723, true},
	{299593572317531, true},
	{3333333333333301, true},
	{3333333333333333, false},
	{3333335652092209, false},
	{4444444444444423, true},
	{4444444444444444, false},
	{4444444488888889, false},
	{5555553133149889, false},
	{5555555555555503, true},
	{5555555555555555, false},
	{6666666666666666, false},
	{6666666666666719, true},
	{6666667141414921, false},
	{7777777536340681, false},
	{7777777777777753, true},
	{7777777777777777, false},
	{9999999999999917, true},
	{9999999999999999, false},
}

func TestIsPrime_SmallNumbers(t *testing.T) {
	cases := []struct {
		n     uint64
		prime bool
	}{
		{0, false}, {1, false}, {2, true}, {3, true}, {4, false},
		{5, true}, {9, false}, {31, true}, {33, false}, {97, true},
	}

	for _, c := range cases {
		if got := IsPrime(c.n); got != c.prime {
			t.Errorf("IsPrime(%d) = %v, want %v", c.n, got, c.prime)
		}
	}
}

func TestIsPrime_Fixture(t *testing.T) {
	if testing.Short() {
		t.Skip("16-digit trial division is slow; skipped with -short")
	}

	for _, c := range primeFixture {
		if got := IsPrime(c.n); got != c.prime {
			t.Errorf("IsPrime(%d) = %v, want %v", c.n, got, c.prime)
		}
	}
}

func TestCheck(t *testing.T) {
	res, err := Check(context.Background(), 97)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Prime {
		t.Error("97 should be prime")
	}
	if res.N != 97 {
		t.Errorf("expected N=97, got %d", res.N)
	}
	if res.Elapsed < 0 {
		t.Errorf("elapsed must be non-negative, got %v", res.Elapsed)
	}
}

func TestCheck_RejectsZero(t *testing.T) {
	if _, err := Check(context.Background(), 0); !errors.Is(err, ErrNonPositive) {
		t.Fatalf("expected ErrNonPositive, got %v", err)
	}
}

func TestNumbersMatchFixture(t *testing.T) {
	if len(Numbers) != len(primeFixture) {
		t.Fatalf("expected %d numbers, got %d", len(primeFixture), len(Numbers))
	}
	for i, n := range Numbers {
		if n != primeFixture[i].n {
			t.Errorf("Numbers[%d] = %d, want %d", i, n, primeFixture[i].n)
		}
	}
}
