package dto

// CreateHallRequest creates a hall. Capacity is people per class, not
// per day.
type CreateHallRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Capacity *int   `json:"capacity" validate:"omitempty,gte=1"`
	Address  string `json:"address" validate:"omitempty,max=255"`
}

// UpdateHallRequest is a partial edit; nil keeps the stored value.
type UpdateHallRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Capacity *int    `json:"capacity" validate:"omitempty,gte=1"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
}
