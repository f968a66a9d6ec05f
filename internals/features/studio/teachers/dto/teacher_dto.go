package dto

// CreateTeacherRequest provisions a teacher account: a users row with
// role teacher plus its teachers profile, in one transaction.
type CreateTeacherRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6,max=72"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	Bio        string   `json:"bio"`
}

// UpdateTeacherRequest is a partial edit over both rows; nil keeps the
// stored value.
type UpdateTeacherRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Password   *string  `json:"password" validate:"omitempty,min=6,max=72"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	Bio        *string  `json:"bio"`
}
