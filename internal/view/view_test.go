package view

import "testing"

func TestMonthName(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{1, "Enero"},
		{9, "Septiembre"},
		{12, "Diciembre"},
		{0, "N/A"},
		{13, "N/A"},
		{-3, "N/A"},
	}
	for _, tc := range cases {
		if got := MonthName(tc.in); got != tc.want {
			t.Errorf("MonthName(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234567", "$1.234.567"},
		{"1234567.89", "$1.234.568"},
		{"0", "$0"},
		{"999", "$999"},
		{"-45000", "-$45.000"},
		{"", "N/A"},
		{"   ", "N/A"},
		{"no-numero", "N/A"},
	}
	for _, tc := range cases {
		if got := Money(tc.in); got != tc.want {
			t.Errorf("Money(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
