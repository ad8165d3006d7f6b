package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"-12.34", -1234, true},
		{"+3", 300, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFromUnits(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{1, 100},
		{12.34, 1234},
		{12.345, 1235},
		{0, 0},
		{-0.5, -50},
	}
	for _, tc := range cases {
		if got := MoneyFromUnits(tc.in); got.Cents != tc.out {
			t.Fatalf("MoneyFromUnits(%v) expected %d, got %d", tc.in, tc.out, got.Cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{-5000, "-50.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := Money{Cents: 1234}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "12.34" {
		t.Fatalf("expected 12.34, got %s", data)
	}

	var back Money
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d", back.Cents)
	}

	var quoted Money
	if err := quoted.UnmarshalJSON([]byte(`"7,50"`)); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if quoted.Cents != 750 {
		t.Fatalf("expected 750 cents, got %d", quoted.Cents)
	}
}
