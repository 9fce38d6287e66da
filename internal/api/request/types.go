package request

// SetModeRequest is the request body for changing the winning pattern
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// MarkRequest is the request body for marking a called number
type MarkRequest struct {
	Number int `json:"number"`
}
