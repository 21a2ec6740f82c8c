package tools

import "testing"

func TestStateCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Antioquia", "ANT"},
		{"ANTIOQUIA", "ANT"},
		{"Cundinamarca", "CUN"},
		{"Bogotá", "CUN"},
		{"BOGOTA", "CUN"},
		{"Valle del Cauca", "VAC"},
		{"ANT", "ANT"},
		{"CO", "CO"},
		{"Narnia Province", "Narnia Province"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := stateCode(tc.in); got != tc.want {
			t.Errorf("stateCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Medellín", "MEDELLIN"},
		{"BOGOTÁ", "BOGOTA"},
		{"cali", "CALI"},
		{"Cúcuta", "CUCUTA"},
	}
	for _, tc := range cases {
		if got := normalizeCity(tc.in); got != tc.want {
			t.Errorf("normalizeCity(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeState(t *testing.T) {
	if got := normalizeState("ant"); got != "CO-ANT" {
		t.Errorf("normalizeState(ant) = %q", got)
	}
	if got := normalizeState("CO-ANT"); got != "CO-ANT" {
		t.Errorf("normalizeState(CO-ANT) = %q", got)
	}
}
