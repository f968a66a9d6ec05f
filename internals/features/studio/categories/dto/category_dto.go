package dto

// CreateCategoryRequest creates a dance direction. Color defaults to
// the UI's blue when omitted.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,max=20"`
}

// UpdateCategoryRequest is a partial edit; nil keeps the stored value.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,max=20"`
}
