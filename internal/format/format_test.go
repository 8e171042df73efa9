package format

import "testing"

func TestPriceUSD(t *testing.T) {
	cases := map[float64]string{
		100:     "$100 USD",
		0:       "$0 USD",
		1234.5:  "$1234.5 USD",
		326.68:  "$326.68 USD",
		1000000: "$1000000 USD",
	}
	for in, want := range cases {
		if got := PriceUSD(in); got != want {
			t.Errorf("PriceUSD(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestScore(t *testing.T) {
	cases := map[float64]string{
		4:    "4.0/5",
		3.65: "3.6/5",
		4.25: "4.3/5",
		4.75: "4.8/5",
		4.96: "5.0/5",
		0:    "0.0/5",
		5:    "5.0/5",
	}
	for in, want := range cases {
		if got := Score(in); got != want {
			t.Errorf("Score(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestGrams(t *testing.T) {
	if got := Grams(0); got != "" {
		t.Errorf("expected empty weight, got %q", got)
	}
	if got := Grams(2.5); got != "2.5 g" {
		t.Errorf("expected 2.5 g, got %q", got)
	}
}
