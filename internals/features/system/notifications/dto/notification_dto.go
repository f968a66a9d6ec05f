package dto

// BroadcastRequest is an admin announcement sent to every member of a
// group.
type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1"`
}
