package service

import "testing"

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"json number one", float64(1), true},
		{"json number zero", float64(0), false},
		{"int", 3, true},
		{"int64 zero", int64(0), false},
		{"string true", "true", true},
		{"string yes", "yes", true},
		{"string on uppercased", "ON", true},
		{"string padded", "  true ", true},
		{"string off", "off", false},
		{"string zero", "0", false},
		{"empty string", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceBool(tt.in, !tt.want); got != tt.want {
				t.Fatalf("CoerceBool(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceBoolFallback(t *testing.T) {
	for _, in := range []any{"maybe", nil, struct{}{}, []string{"true"}} {
		if got := CoerceBool(in, true); got != true {
			t.Fatalf("CoerceBool(%#v, true) = %v, want fallback", in, got)
		}
		if got := CoerceBool(in, false); got != false {
			t.Fatalf("CoerceBool(%#v, false) = %v, want fallback", in, got)
		}
	}
}
