package service

import (
	"testing"

	"studioku_backend/internals/constants"
)

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		from string
		to   string
		want float64
	}{
		{"five to hundred", 4.5, constants.GradeScaleFive, constants.GradeScaleHundred, 90},
		{"hundred to five", 87, constants.GradeScaleHundred, constants.GradeScaleFive, 4.35},
		{"fraction keeps two decimals", 4.33, constants.GradeScaleFive, constants.GradeScaleHundred, 86.6},
		{"odd value rounds", 93, constants.GradeScaleHundred, constants.GradeScaleFive, 4.65},
		{"same scale untouched", 4.33, constants.GradeScaleFive, constants.GradeScaleFive, 4.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertValue(tt.v, tt.from, tt.to); got != tt.want {
				t.Fatalf("ConvertValue(%v, %s, %s) = %v, want %v", tt.v, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 2.5, 3.75, 5} {
		up := ConvertValue(v, constants.GradeScaleFive, constants.GradeScaleHundred)
		back := ConvertValue(up, constants.GradeScaleHundred, constants.GradeScaleFive)
		if back != v {
			t.Fatalf("round trip of %v came back as %v (via %v)", v, back, up)
		}
	}
}

func TestScaleMax(t *testing.T) {
	if got := ScaleMax(constants.GradeScaleHundred); got != 100 {
		t.Fatalf("ScaleMax(0-100) = %v", got)
	}
	if got := ScaleMax(constants.GradeScaleFive); got != 5 {
		t.Fatalf("ScaleMax(0-5) = %v", got)
	}
	if got := ScaleMax("anything else"); got != 5 {
		t.Fatalf("ScaleMax fallback = %v, want 5", got)
	}
}

func TestNormalizeScale(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"five", "0-5", constants.GradeScaleFive},
		{"hundred with spaces", " 0-100 ", constants.GradeScaleHundred},
		{"unknown string", "0-10", constants.GradeScaleFive},
		{"not a string", 42, constants.GradeScaleFive},
		{"nil", nil, constants.GradeScaleFive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeScale(tt.in, constants.GradeScaleFive); got != tt.want {
				t.Fatalf("normalizeScale(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
