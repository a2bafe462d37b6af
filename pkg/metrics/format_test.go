package metrics

import (
	"math"
	"testing"
	"time"
)

func TestFormatScaled_Bands(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12.7, "12"},
		{9999, "9999"},
		{10000, "10k"},
		{15000000, "15m"},
		{-25000, "-25k"},
		{-0.4, "0"},
		{2.5e9, "2500m"},
		{1.2e10, "12g"},
		{3e13, "30t"},
		{5e16, "50000p"},
		{7e19, "70000e"},
		{4e22, "40000z"},
		{math.Ldexp(1, 90), "1237940y"},
	}
	for _, tc := range cases {
		if got := FormatScaled(tc.in); got != tc.want {
			t.Errorf("FormatScaled(%v) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatScaled_Monotone(t *testing.T) {
	prev := FormatScaled(1)
	for v := 10.0; v < 1e9; v *= 10 {
		got := FormatScaled(v)
		if got == prev {
			t.Errorf("FormatScaled(%v) = %q repeats previous value", v, got)
		}
		prev = got
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:     "0s",
		45:    "45s",
		60:    "1m0s",
		125:   "2m5s",
		3600:  "1h0m0s",
		3725:  "1h2m5s",
		86399: "23h59m59s",
		90000: "1d1h0m0s",
		-1:    "-1s",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q; want %q", in, got, want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.Local)
	if got, want := FormatDateTime(ts), "Mar 5, 2024 2:07:09 PM"; got != want {
		t.Errorf("FormatDateTime = %q; want %q", got, want)
	}
}
