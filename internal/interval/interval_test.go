package interval

import "testing"

func TestSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"1s", 1},
		{"2m", 120},
		{"4h", 4 * 3600},
		{"3D", 3 * 86400},
		{"1W", 7 * 86400},
		{"1M", 30 * 86400},
		{"1Y", 365 * 86400},
		{"1M3W4h2s", 30*86400 + 3*7*86400 + 4*3600 + 2},
		{"1Y3M", 365*86400 + 3*30*86400},
		{"10D", 10 * 86400},
	}
	for _, c := range cases {
		got, err := Seconds(c.in)
		if err != nil {
			t.Errorf("Seconds(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Seconds(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSeconds_Invalid(t *testing.T) {
	for _, in := range []string{
		"0s",     // zero count rejected
		"abc",    // no token
		"1",      // count without unit
		"s",      // unit without count
		"1d",     // lowercase d is not a unit
		"1w",     // lowercase w is not a unit
		"1M3Wxx", // valid prefix, garbage remainder
		"1M 3W",  // separators are not part of the grammar
		"-1s",
	} {
		if got, err := Seconds(in); err == nil {
			t.Errorf("Seconds(%q) = %d, want error", in, got)
		}
	}
}
