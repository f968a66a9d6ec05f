package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

/* =========================
   Patch types (tri-state)
   - Patch[T]         : not-set | set(value)
   - PatchNullable[T] : not-set | set(null) | set(value)
========================= */

type Patch[T any] struct {
	Set   bool
	Value T
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	// Any presence in JSON means Set=true (even if zero value)
	p.Set = true
	return json.Unmarshal(b, &p.Value)
}

func (p Patch[T]) IsSet() bool { return p.Set }

type PatchNullable[T any] struct {
	Set   bool // field key present?
	Valid bool // true => has Value, false => explicit null
	Value T
}

func (p *PatchNullable[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if string(b) == "null" {
		p.Valid = false
		return nil
	}
	p.Valid = true
	return json.Unmarshal(b, &p.Value)
}

func (p PatchNullable[T]) IsSet() bool { return p.Set }

// Ptr returns the value as a nullable pointer: nil for explicit null.
func (p PatchNullable[T]) Ptr() *T {
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}

/* =========================
   Requests
========================= */

type CreateGroupRequest struct {
	Name          string     `json:"name" validate:"required,min=1,max=150"`
	CategoryID    *uuid.UUID `json:"category_id"`
	HallID        *uuid.UUID `json:"hall_id"`
	MainTeacherID *uuid.UUID `json:"main_teacher_id"`

	DurationMinutes int  `json:"duration_minutes" validate:"omitempty,gte=15,lte=240"`
	Capacity        *int `json:"capacity" validate:"omitempty,gte=1"`

	IsTrial    bool     `json:"is_trial"`
	TrialPrice *float64 `json:"trial_price" validate:"omitempty,gte=0"`

	// Dates in "YYYY-MM-DD"; end_date is open-ended when empty.
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"`

	IsAdditional bool   `json:"is_additional"`
	Comment      string `json:"comment"`
}

// UpdateGroupRequest applies only the keys the caller sent. Nullable
// references distinguish "clear it" (explicit null) from "leave it".
type UpdateGroupRequest struct {
	Name          *string                  `json:"name" validate:"omitempty,min=1,max=150"`
	CategoryID    PatchNullable[uuid.UUID] `json:"category_id"`
	HallID        PatchNullable[uuid.UUID] `json:"hall_id"`
	MainTeacherID PatchNullable[uuid.UUID] `json:"main_teacher_id"`

	DurationMinutes *int `json:"duration_minutes" validate:"omitempty,gte=15,lte=240"`
	Capacity        *int `json:"capacity" validate:"omitempty,gte=1"`

	// Dates in "YYYY-MM-DD"; empty string clears.
	StartDate      *string `json:"start_date"`
	RecurringUntil *string `json:"recurring_until"`

	IsClosed     *bool `json:"is_closed"`
	IsAdditional *bool `json:"is_additional"`

	IsTrial    *bool                  `json:"is_trial"`
	TrialPrice PatchNullable[float64] `json:"trial_price"`

	Comment *string `json:"comment"`

	// Day name ("monday".."sunday") -> "HH:MM". Replaces the whole
	// weekly pattern when present; blank times drop the day.
	Schedules map[string]string `json:"schedules"`
}

type GroupLimitRequest struct {
	Capacity int `json:"capacity" validate:"required,gte=1"`
}

type AddStudentToGroupRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	IsTrial   bool      `json:"is_trial"`
}
