package dto

// UpdateUserRequest carries the admin's partial user edit. Nil means
// "keep as is"; phone is routed to the student profile row.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Role     *string `json:"role" validate:"omitempty,oneof=student teacher admin"`
	IsActive *bool   `json:"is_active"`
	Comment  *string `json:"comment"`
}

// ResetPasswordRequest is the admin-side forced password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// UserRow is one row of the admin user list: the users record joined
// with whichever profile rows exist.
type UserRow struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	IsActive   bool     `json:"is_active"`
	Phone      string   `json:"phone"`
	CreatedAt  string   `json:"created_at,omitempty"`
	StudentID  *string  `json:"student_id"`
	TeacherID  *string  `json:"teacher_id"`
	HourlyRate *float64 `json:"hourly_rate"`
	Bio        *string  `json:"bio"`
}
