package dto

// CreateStudentRequest provisions a student account: users row plus
// students profile in one transaction.
type CreateStudentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
}

// UpdateStudentRequest is the admin's partial edit over both rows.
// SubscriptionUntil is a YYYY-MM-DD string.
type UpdateStudentRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Password          *string `json:"password" validate:"omitempty,min=6,max=72"`
	PhoneNumber       *string `json:"phone_number" validate:"omitempty,max=30"`
	Comment           *string `json:"comment"`
	TrialUsed         *bool   `json:"trial_used"`
	SubscriptionUntil *string `json:"subscription_until"`
}

// ProfileUpdateRequest is the student's own profile upsert. A nil
// comment keeps the stored one.
type ProfileUpdateRequest struct {
	PhoneNumber string  `json:"phone_number"`
	Comment     *string `json:"comment"`
}
