package textutil

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and splits", "Ravi Kumar-Sharma", []string{"ravi", "kumar", "sharma"}},
		{"keeps single letters", "Ravi K. Sharma", []string{"ravi", "k", "sharma"}},
		{"mixed alphanumerics", "Flat 42B, MG Road", []string{"flat", "42b", "mg", "road"}},
		{"empty", "   ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.text)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "ravi kumar", "ravi kumar", 1.0},
		{"reordered", "kumar ravi", "ravi kumar", 1.0},
		{"disjoint", "ravi kumar", "anita desai", 0.0},
		{"partial", "ravi kumar sharma", "ravi kumar", 2.0 / 3.0},
		{"empty side", "", "ravi", 0.0},
		{"both empty", "", "", 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TokenOverlap(tc.a, tc.b)
			if got != tc.want {
				t.Fatalf("TokenOverlap(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
