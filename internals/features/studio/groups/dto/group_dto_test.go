package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestPatchNullableTriState(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
	}{
		{"absent key", `{}`, false, false},
		{"explicit null clears", `{"hall_id": null}`, true, false},
		{"value sets", `{"hall_id": "` + id.String() + `"}`, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateGroupRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if req.HallID.IsSet() != tt.wantSet {
				t.Fatalf("Set = %v, want %v", req.HallID.IsSet(), tt.wantSet)
			}
			if req.HallID.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v", req.HallID.Valid, tt.wantValid)
			}
			if tt.wantValid && req.HallID.Value != id {
				t.Fatalf("Value = %v, want %v", req.HallID.Value, id)
			}
		})
	}
}

func TestPatchNullablePtr(t *testing.T) {
	var p PatchNullable[float64]
	if err := json.Unmarshal([]byte("null"), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if ptr := p.Ptr(); ptr != nil {
		t.Fatalf("Ptr after null = %v, want nil", *ptr)
	}

	if err := json.Unmarshal([]byte("1500"), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	ptr := p.Ptr()
	if ptr == nil || *ptr != 1500 {
		t.Fatalf("Ptr = %v, want 1500", ptr)
	}
}

func TestPatchZeroValueCounts(t *testing.T) {
	var p Patch[bool]
	if p.IsSet() {
		t.Fatalf("zero Patch must not be set")
	}
	if err := json.Unmarshal([]byte("false"), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !p.IsSet() || p.Value != false {
		t.Fatalf("explicit false must count as set")
	}
}
